package model

import (
	"strings"
	"time"
)

// SwapStatus is the state of a swap request.
type SwapStatus string

const (
	StatusPending  SwapStatus = "Pending"
	StatusAccepted SwapStatus = "Accepted"
	StatusRejected SwapStatus = "Rejected"
)

// Decided reports whether s is a terminal status.
func (s SwapStatus) Decided() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ParseDecision maps a client-supplied status onto Accepted or Rejected.
// Matching is case-insensitive; anything else (including Pending) is refused.
func ParseDecision(s string) (SwapStatus, bool) {
	switch {
	case strings.EqualFold(s, string(StatusAccepted)):
		return StatusAccepted, true
	case strings.EqualFold(s, string(StatusRejected)):
		return StatusRejected, true
	default:
		return "", false
	}
}

// PairKey normalizes two user IDs into an unordered pair (low, high).
func PairKey(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// SwapRequest is a directional match request from SenderID to ReceiverID.
// PairLow/PairHigh hold the normalized pair so lookups ignore direction.
type SwapRequest struct {
	ID         string     `db:"id"`
	SenderID   string     `db:"sender_id"`
	ReceiverID string     `db:"receiver_id"`
	PairLow    string     `db:"pair_low"`
	PairHigh   string     `db:"pair_high"`
	Status     SwapStatus `db:"status"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// Involves reports whether userID is the sender or the receiver.
func (s SwapRequest) Involves(userID string) bool {
	return s.SenderID == userID || s.ReceiverID == userID
}

// CounterpartOf returns the other party of the request.
func (s SwapRequest) CounterpartOf(userID string) string {
	if s.SenderID == userID {
		return s.ReceiverID
	}
	return s.SenderID
}

// SwapRequestView is a swap request joined with the counterpart of the
// user it was listed for.
type SwapRequestView struct {
	SwapRequest
	CounterpartID    string `db:"counterpart_id"`
	CounterpartName  string `db:"counterpart_name"`
	CounterpartEmail string `db:"counterpart_email"`
}

// CreateSwapRequest represents a request to open a swap with another user.
type CreateSwapRequest struct {
	ReceiverID string `json:"receiver_id"`
}

// UpdateSwapStatusRequest represents a receiver's decision on a request.
type UpdateSwapStatusRequest struct {
	Status string `json:"status"`
}

// Counterpart is the public identity of the other side of a match.
type Counterpart struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SwapRequestResponse is the API shape of a swap request.
type SwapRequestResponse struct {
	ID          string       `json:"id"`
	SenderID    string       `json:"sender_id"`
	ReceiverID  string       `json:"receiver_id"`
	Status      SwapStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Counterpart *Counterpart `json:"counterpart,omitempty"`
}

// SwapRequestEnvelope wraps a single swap request.
type SwapRequestEnvelope struct {
	Success     bool                `json:"success"`
	SwapRequest SwapRequestResponse `json:"swap_request"`
}

// SwapRequestList partitions a user's requests.
type SwapRequestList struct {
	Success  bool                  `json:"success"`
	Incoming []SwapRequestResponse `json:"incoming"`
	Outgoing []SwapRequestResponse `json:"outgoing"`
	Accepted []SwapRequestResponse `json:"accepted"`
}

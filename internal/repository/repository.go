package repository

import (
	"context"
	"errors"
	"time"

	"github.com/swaps/swaps-go/internal/model"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrDuplicateName    = errors.New("name already exists")
	ErrRequestNotFound  = errors.New("swap request not found")
	ErrRequestDecided   = errors.New("swap request already decided")
	ErrDuplicateRequest = errors.New("active swap request already exists for pair")
	ErrMessageNotFound  = errors.New("message not found")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// UpdateUser writes the name and email of user.
	UpdateUser(ctx context.Context, user *model.User) error
	// DeleteUser removes the user together with their swap requests and messages.
	DeleteUser(ctx context.Context, id string) error
}

// SwapRequestStore persists the swap request ledger.
//
// At most one Pending or Accepted request may exist per unordered pair;
// CreateSwapRequest returns ErrDuplicateRequest otherwise.
type SwapRequestStore interface {
	CreateSwapRequest(ctx context.Context, req *model.SwapRequest) error
	GetSwapRequest(ctx context.Context, id string) (*model.SwapRequest, error)
	// DecideSwapRequest moves a Pending request to status. It returns
	// ErrRequestDecided if the request is no longer Pending.
	DecideSwapRequest(ctx context.Context, id string, status model.SwapStatus, at time.Time) error
	// ListSwapRequests returns every request involving userID, most recently
	// updated first, joined with the counterpart's identity.
	ListSwapRequests(ctx context.Context, userID string) ([]model.SwapRequestView, error)
	// HasAcceptedPair reports whether an Accepted request exists for the
	// normalized pair (low, high).
	HasAcceptedPair(ctx context.Context, low, high string) (bool, error)
}

// MessageStore persists direct messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg *model.Message) error
	// ListMessagesBetween returns the messages exchanged by a and b in either
	// direction, oldest first. Ties keep insertion order.
	ListMessagesBetween(ctx context.Context, a, b string) ([]model.Message, error)
	// LatestMessageBetween returns the newest message between a and b, or
	// ErrMessageNotFound.
	LatestMessageBetween(ctx context.Context, a, b string) (*model.Message, error)
}

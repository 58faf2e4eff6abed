package service

import (
	"context"
	"errors"
	"strings"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

// LedgerService owns the swap request state machine:
//
//	Pending --receiver accepts--> Accepted
//	Pending --receiver rejects--> Rejected
//
// Accepted and Rejected are terminal.
type LedgerService struct {
	requests repository.SwapRequestStore
	users    repository.UserStore
	now      Clock
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(requests repository.SwapRequestStore, users repository.UserStore, now Clock) *LedgerService {
	if now == nil {
		now = SystemClock
	}
	return &LedgerService{requests: requests, users: users, now: now}
}

// CreateRequest opens a Pending request from senderID to the receiver.
func (s *LedgerService) CreateRequest(ctx context.Context, senderID string, req model.CreateSwapRequest) (model.SwapRequestResponse, error) {
	receiverID := strings.TrimSpace(req.ReceiverID)
	if receiverID == "" {
		return model.SwapRequestResponse{}, ErrReceiverRequired
	}
	if receiverID == senderID {
		return model.SwapRequestResponse{}, ErrSelfTarget
	}

	if _, err := s.users.GetUserByID(ctx, receiverID); err != nil {
		return model.SwapRequestResponse{}, mapUserError(err)
	}

	now := s.now()
	sr := &model.SwapRequest{
		ID:         newID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	sr.PairLow, sr.PairHigh = model.PairKey(senderID, receiverID)

	if err := s.requests.CreateSwapRequest(ctx, sr); err != nil {
		return model.SwapRequestResponse{}, mapLedgerError(err)
	}

	return toSwapRequestResponse(*sr, nil), nil
}

// ListRequests partitions the requests involving userID into incoming and
// outgoing Pending requests and Accepted matches.
func (s *LedgerService) ListRequests(ctx context.Context, userID string) (model.SwapRequestList, error) {
	views, err := s.requests.ListSwapRequests(ctx, userID)
	if err != nil {
		return model.SwapRequestList{}, err
	}

	list := model.SwapRequestList{
		Success:  true,
		Incoming: []model.SwapRequestResponse{},
		Outgoing: []model.SwapRequestResponse{},
		Accepted: []model.SwapRequestResponse{},
	}
	for _, v := range views {
		resp := toSwapRequestResponse(v.SwapRequest, counterpartOf(v))
		switch {
		case v.Status == model.StatusAccepted:
			list.Accepted = append(list.Accepted, resp)
		case v.Status == model.StatusPending && v.ReceiverID == userID:
			list.Incoming = append(list.Incoming, resp)
		case v.Status == model.StatusPending && v.SenderID == userID:
			list.Outgoing = append(list.Outgoing, resp)
		}
	}
	return list, nil
}

// GetRequest returns a request visible to actorID.
func (s *LedgerService) GetRequest(ctx context.Context, requestID, actorID string) (model.SwapRequestResponse, error) {
	sr, err := s.requests.GetSwapRequest(ctx, requestID)
	if err != nil {
		return model.SwapRequestResponse{}, mapLedgerError(err)
	}
	if !sr.Involves(actorID) {
		return model.SwapRequestResponse{}, ErrNotParty
	}
	return toSwapRequestResponse(*sr, nil), nil
}

// UpdateStatus lets the receiver accept or reject a Pending request.
func (s *LedgerService) UpdateStatus(ctx context.Context, requestID, actorID, status string) (model.SwapRequestResponse, error) {
	sr, err := s.requests.GetSwapRequest(ctx, requestID)
	if err != nil {
		return model.SwapRequestResponse{}, mapLedgerError(err)
	}
	if sr.ReceiverID != actorID {
		return model.SwapRequestResponse{}, ErrForbidden
	}

	decision, ok := model.ParseDecision(strings.TrimSpace(status))
	if !ok {
		return model.SwapRequestResponse{}, ErrInvalidStatus
	}
	if sr.Status.Decided() {
		return model.SwapRequestResponse{}, ErrAlreadyDecided
	}

	at := s.now()
	if err := s.requests.DecideSwapRequest(ctx, sr.ID, decision, at); err != nil {
		return model.SwapRequestResponse{}, mapLedgerError(err)
	}

	sr.Status = decision
	sr.UpdatedAt = at
	return toSwapRequestResponse(*sr, nil), nil
}

func counterpartOf(v model.SwapRequestView) *model.Counterpart {
	return &model.Counterpart{
		ID:    v.CounterpartID,
		Name:  v.CounterpartName,
		Email: v.CounterpartEmail,
	}
}

func toSwapRequestResponse(sr model.SwapRequest, counterpart *model.Counterpart) model.SwapRequestResponse {
	return model.SwapRequestResponse{
		ID:          sr.ID,
		SenderID:    sr.SenderID,
		ReceiverID:  sr.ReceiverID,
		Status:      sr.Status,
		CreatedAt:   sr.CreatedAt,
		UpdatedAt:   sr.UpdatedAt,
		Counterpart: counterpart,
	}
}

func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, repository.ErrRequestNotFound):
		return ErrRequestNotFound
	case errors.Is(err, repository.ErrRequestDecided):
		return ErrAlreadyDecided
	case errors.Is(err, repository.ErrDuplicateRequest):
		return ErrRequestExists
	default:
		return mapUserError(err)
	}
}

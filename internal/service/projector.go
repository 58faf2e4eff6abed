package service

import (
	"context"
	"errors"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

// Projector builds the inbox view of a user from the ledger and the
// message store.
type Projector struct {
	requests repository.SwapRequestStore
	messages repository.MessageStore
}

// NewProjector creates a new Projector.
func NewProjector(requests repository.SwapRequestStore, messages repository.MessageStore) *Projector {
	return &Projector{requests: requests, messages: messages}
}

// ListConversations returns one summary per Accepted match of userID,
// most recently accepted first. Ordering follows the match, not the
// latest message.
func (p *Projector) ListConversations(ctx context.Context, userID string) ([]model.ConversationSummary, error) {
	views, err := p.requests.ListSwapRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	conversations := []model.ConversationSummary{}
	for _, v := range views {
		if v.Status != model.StatusAccepted {
			continue
		}

		summary := model.ConversationSummary{
			Counterpart: *counterpartOf(v),
			MatchedAt:   v.UpdatedAt,
		}

		latest, err := p.messages.LatestMessageBetween(ctx, userID, v.CounterpartID)
		switch {
		case err == nil:
			resp := latest.ToResponse()
			summary.LastMessage = &resp
		case !errors.Is(err, repository.ErrMessageNotFound):
			return nil, err
		}

		conversations = append(conversations, summary)
	}
	return conversations, nil
}

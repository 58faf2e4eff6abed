package service

import (
	"context"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

// Gate decides whether two users may exchange messages. They may once a
// swap request between them, in either direction, has been Accepted.
type Gate struct {
	requests repository.SwapRequestStore
}

// NewGate creates a new Gate.
func NewGate(requests repository.SwapRequestStore) *Gate {
	return &Gate{requests: requests}
}

// Authorize reports whether a and b have an Accepted match. It is symmetric
// and has no side effects.
func (g *Gate) Authorize(ctx context.Context, a, b string) (bool, error) {
	if a == "" || b == "" || a == b {
		return false, nil
	}
	low, high := model.PairKey(a, b)
	return g.requests.HasAcceptedPair(ctx, low, high)
}

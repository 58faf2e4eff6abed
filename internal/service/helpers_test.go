package service

import (
	"context"
	"testing"
	"time"

	"github.com/swaps/swaps-go/internal/crypto"
	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository/memory"
)

var testHashParams = crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

// stepClock advances by step on every reading.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), step: step}
}

type testEnv struct {
	store     *memory.Store
	clock     *stepClock
	auth      *AuthService
	ledger    *LedgerService
	gate      *Gate
	messages  *MessageService
	projector *Projector
	users     *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithClock(t, newStepClock(time.Second))
}

func newTestEnvWithClock(t *testing.T, clock *stepClock) *testEnv {
	t.Helper()
	store := memory.New()
	gate := NewGate(store)
	return &testEnv{
		store: store,
		clock: clock,
		auth: NewAuthService(store, "test-secret", time.Hour,
			WithHashParams(testHashParams),
			WithAuthClock(clock.Now),
			WithAdminEmails([]string{"Root@Swaps.test"}),
		),
		ledger:    NewLedgerService(store, store, clock.Now),
		gate:      gate,
		messages:  NewMessageService(gate, store, clock.Now),
		projector: NewProjector(store, store),
		users:     NewUserService(store),
	}
}

func (e *testEnv) register(t *testing.T, name string) model.UserResponse {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), model.RegisterRequest{
		Name:     name,
		Email:    name + "@test.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register(%q) unexpected error: %v", name, err)
	}
	return resp.User
}

func (e *testEnv) request(t *testing.T, from, to string) model.SwapRequestResponse {
	t.Helper()
	sr, err := e.ledger.CreateRequest(context.Background(), from, model.CreateSwapRequest{ReceiverID: to})
	if err != nil {
		t.Fatalf("CreateRequest() unexpected error: %v", err)
	}
	return sr
}

func (e *testEnv) match(t *testing.T, from, to string) model.SwapRequestResponse {
	t.Helper()
	sr := e.request(t, from, to)
	decided, err := e.ledger.UpdateStatus(context.Background(), sr.ID, to, "Accepted")
	if err != nil {
		t.Fatalf("UpdateStatus() unexpected error: %v", err)
	}
	return decided
}

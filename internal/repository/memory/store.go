// Package memory provides an in-process implementation of the repository
// stores. It enforces the same uniqueness and cascade rules as the SQL
// schema and is used for development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

// Store holds users, swap requests and messages in memory. Requests and
// messages are kept in insertion order.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	requests []model.SwapRequest
	messages []model.Message
}

var (
	_ repository.UserStore        = (*Store)(nil)
	_ repository.SwapRequestStore = (*Store)(nil)
	_ repository.MessageStore     = (*Store)(nil)
)

// New creates an empty Store.
func New() *Store {
	return &Store{users: make(map[string]model.User)}
}

// CreateUser inserts user, rejecting duplicate emails and names.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUniqueLocked(user); err != nil {
		return err
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) checkUniqueLocked(user *model.User) error {
	for id, u := range s.users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Name == user.Name {
			return repository.ErrDuplicateName
		}
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *Store) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// ListUsers returns all users, oldest first.
func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b model.User) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return users, nil
}

// UpdateUser writes the user's name and email.
func (s *Store) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if err := s.checkUniqueLocked(user); err != nil {
		return err
	}
	existing.Name = user.Name
	existing.Email = user.Email
	s.users[user.ID] = existing
	return nil
}

// DeleteUser removes a user along with every request and message they take part in.
func (s *Store) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	s.requests = slices.DeleteFunc(s.requests, func(r model.SwapRequest) bool {
		return r.Involves(id)
	})
	s.messages = slices.DeleteFunc(s.messages, func(m model.Message) bool {
		return m.SenderID == id || m.ReceiverID == id
	})
	return nil
}

// CreateSwapRequest inserts req unless the pair already has an active request.
func (s *Store) CreateSwapRequest(_ context.Context, req *model.SwapRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[req.SenderID]; !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := s.users[req.ReceiverID]; !ok {
		return repository.ErrUserNotFound
	}
	if s.activePairLocked(req.PairLow, req.PairHigh, req.ID) {
		return repository.ErrDuplicateRequest
	}
	s.requests = append(s.requests, *req)
	return nil
}

// activePairLocked reports whether a Pending or Accepted request other than
// exceptID exists for the pair.
func (s *Store) activePairLocked(low, high, exceptID string) bool {
	return slices.ContainsFunc(s.requests, func(r model.SwapRequest) bool {
		return r.ID != exceptID && r.PairLow == low && r.PairHigh == high && r.Status != model.StatusRejected
	})
}

// GetSwapRequest retrieves a request by ID.
func (s *Store) GetSwapRequest(_ context.Context, id string) (*model.SwapRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.requestIndexLocked(id)
	if i < 0 {
		return nil, repository.ErrRequestNotFound
	}
	req := s.requests[i]
	return &req, nil
}

func (s *Store) requestIndexLocked(id string) int {
	return slices.IndexFunc(s.requests, func(r model.SwapRequest) bool { return r.ID == id })
}

// DecideSwapRequest moves a Pending request to status.
func (s *Store) DecideSwapRequest(_ context.Context, id string, status model.SwapStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.requestIndexLocked(id)
	if i < 0 {
		return repository.ErrRequestNotFound
	}
	if s.requests[i].Status != model.StatusPending {
		return repository.ErrRequestDecided
	}
	s.requests[i].Status = status
	s.requests[i].UpdatedAt = at
	return nil
}

// ListSwapRequests returns every request involving userID with the
// counterpart's identity, most recently updated first.
func (s *Store) ListSwapRequests(_ context.Context, userID string) ([]model.SwapRequestView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	views := []model.SwapRequestView{}
	for _, r := range s.requests {
		if !r.Involves(userID) {
			continue
		}
		other, ok := s.users[r.CounterpartOf(userID)]
		if !ok {
			continue
		}
		views = append(views, model.SwapRequestView{
			SwapRequest:      r,
			CounterpartID:    other.ID,
			CounterpartName:  other.Name,
			CounterpartEmail: other.Email,
		})
	}
	slices.SortStableFunc(views, func(a, b model.SwapRequestView) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return views, nil
}

// HasAcceptedPair reports whether the pair has an Accepted request.
func (s *Store) HasAcceptedPair(_ context.Context, low, high string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.ContainsFunc(s.requests, func(r model.SwapRequest) bool {
		return r.PairLow == low && r.PairHigh == high && r.Status == model.StatusAccepted
	}), nil
}

// CreateMessage appends msg.
func (s *Store) CreateMessage(_ context.Context, msg *model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[msg.SenderID]; !ok {
		return repository.ErrUserNotFound
	}
	if _, ok := s.users[msg.ReceiverID]; !ok {
		return repository.ErrUserNotFound
	}
	s.messages = append(s.messages, *msg)
	return nil
}

// ListMessagesBetween returns the conversation between a and b, oldest
// first. The stable sort keeps insertion order among equal timestamps.
func (s *Store) ListMessagesBetween(_ context.Context, a, b string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := []model.Message{}
	for _, m := range s.messages {
		if between(m, a, b) {
			msgs = append(msgs, m)
		}
	}
	slices.SortStableFunc(msgs, func(x, y model.Message) int {
		return x.CreatedAt.Compare(y.CreatedAt)
	})
	return msgs, nil
}

// LatestMessageBetween returns the newest message between a and b. Among
// equal timestamps the last inserted wins.
func (s *Store) LatestMessageBetween(_ context.Context, a, b string) (*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *model.Message
	for i := range s.messages {
		m := s.messages[i]
		if !between(m, a, b) {
			continue
		}
		if latest == nil || !m.CreatedAt.Before(latest.CreatedAt) {
			latest = &m
		}
	}
	if latest == nil {
		return nil, repository.ErrMessageNotFound
	}
	return latest, nil
}

func between(m model.Message, a, b string) bool {
	return (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a)
}

package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

const maxContentLength = 5000

// MessageService sends and reads messages between matched users.
type MessageService struct {
	gate     *Gate
	messages repository.MessageStore
	now      Clock
}

// NewMessageService creates a new MessageService.
func NewMessageService(gate *Gate, messages repository.MessageStore, now Clock) *MessageService {
	if now == nil {
		now = SystemClock
	}
	return &MessageService{gate: gate, messages: messages, now: now}
}

// SendMessage stores a message from senderID to the receiver. The gate check
// and the insert are separate round trips.
func (s *MessageService) SendMessage(ctx context.Context, senderID string, req model.SendMessageRequest) (model.MessageResponse, error) {
	receiverID := strings.TrimSpace(req.ReceiverID)
	content := req.Content

	// Whitespace-only content counts as missing; otherwise the body is kept as sent.
	switch {
	case receiverID == "":
		return model.MessageResponse{}, ErrReceiverRequired
	case strings.TrimSpace(content) == "":
		return model.MessageResponse{}, ErrContentRequired
	case utf8.RuneCountInString(content) > maxContentLength:
		return model.MessageResponse{}, ErrContentTooLong
	case receiverID == senderID:
		return model.MessageResponse{}, ErrSelfTarget
	}

	if err := s.authorize(ctx, senderID, receiverID); err != nil {
		return model.MessageResponse{}, err
	}

	msg := &model.Message{
		ID:         newID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  s.now(),
	}
	if err := s.messages.CreateMessage(ctx, msg); err != nil {
		return model.MessageResponse{}, mapUserError(err)
	}

	return msg.ToResponse(), nil
}

// GetConversation returns every message between userID and otherID, oldest first.
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID string) ([]model.MessageResponse, error) {
	if err := s.authorize(ctx, userID, otherID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListMessagesBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return toMessageResponses(msgs), nil
}

func (s *MessageService) authorize(ctx context.Context, a, b string) error {
	ok, err := s.gate.Authorize(ctx, a, b)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMatched
	}
	return nil
}

func toMessageResponses(msgs []model.Message) []model.MessageResponse {
	result := make([]model.MessageResponse, len(msgs))
	for i, m := range msgs {
		result[i] = m.ToResponse()
	}
	return result
}

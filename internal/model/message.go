package model

import "time"

// Message is a direct message between two matched users.
type Message struct {
	ID         string    `db:"id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID string    `db:"receiver_id"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}

// SendMessageRequest represents a message send request.
type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// MessageResponse is the API shape of a message.
type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// ToResponse converts m to its API shape.
func (m Message) ToResponse() MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Timestamp:  m.CreatedAt,
	}
}

// MessageEnvelope wraps a single message.
type MessageEnvelope struct {
	Success bool            `json:"success"`
	Message MessageResponse `json:"message"`
}

// ConversationMessages is the ordered message history with one counterpart.
type ConversationMessages struct {
	Success  bool              `json:"success"`
	Messages []MessageResponse `json:"messages"`
}

// ConversationSummary is one inbox row: a matched counterpart and the
// latest message exchanged with them.
type ConversationSummary struct {
	Counterpart Counterpart      `json:"counterpart"`
	LastMessage *MessageResponse `json:"last_message"`
	UnreadCount int              `json:"unread_count"`
	MatchedAt   time.Time        `json:"matched_at"`
}

// ConversationList is the inbox view of a user.
type ConversationList struct {
	Success       bool                  `json:"success"`
	Conversations []ConversationSummary `json:"conversations"`
}

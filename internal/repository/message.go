package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/swaps/swaps-go/internal/model"
)

const messageColumns = `id, sender_id, receiver_id, content, created_at`

// betweenClause matches both directions of a pair; it takes a, b, b, a.
const betweenClause = `(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)`

// MessageRepository handles message persistence operations.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository creates a new MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// CreateMessage inserts a message. IDs are time-ordered, so ordering by
// (created_at, id) follows insertion order.
func (r *MessageRepository) CreateMessage(ctx context.Context, msg *model.Message) error {
	query := r.db.Rebind(`INSERT INTO messages (` + messageColumns + `) VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.SenderID, msg.ReceiverID, msg.Content, msg.CreatedAt)
	if err != nil && isForeignKeyViolation(err) {
		return ErrUserNotFound
	}
	return err
}

// ListMessagesBetween returns the conversation between a and b, oldest first.
func (r *MessageRepository) ListMessagesBetween(ctx context.Context, a, b string) ([]model.Message, error) {
	query := r.db.Rebind(`SELECT ` + messageColumns + ` FROM messages
		WHERE ` + betweenClause + `
		ORDER BY created_at ASC, id ASC`)

	msgs := []model.Message{}
	if err := r.db.SelectContext(ctx, &msgs, query, a, b, b, a); err != nil {
		return nil, err
	}
	return msgs, nil
}

// LatestMessageBetween returns the newest message between a and b.
func (r *MessageRepository) LatestMessageBetween(ctx context.Context, a, b string) (*model.Message, error) {
	query := r.db.Rebind(`SELECT ` + messageColumns + ` FROM messages
		WHERE ` + betweenClause + `
		ORDER BY created_at DESC, id DESC LIMIT 1`)

	msg := &model.Message{}
	if err := r.db.GetContext(ctx, msg, query, a, b, b, a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}

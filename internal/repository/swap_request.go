package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/swaps/swaps-go/internal/model"
)

const swapRequestColumns = `id, sender_id, receiver_id, pair_low, pair_high, status, created_at, updated_at`

// SwapRequestRepository handles swap request persistence operations.
type SwapRequestRepository struct {
	db *sqlx.DB
}

// NewSwapRequestRepository creates a new SwapRequestRepository.
func NewSwapRequestRepository(db *sqlx.DB) *SwapRequestRepository {
	return &SwapRequestRepository{db: db}
}

// CreateSwapRequest inserts a new request. The active-pair unique index
// rejects a second Pending or Accepted request for the same pair.
func (r *SwapRequestRepository) CreateSwapRequest(ctx context.Context, req *model.SwapRequest) error {
	query := r.db.Rebind(`INSERT INTO swap_requests (` + swapRequestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.SenderID, req.ReceiverID, req.PairLow, req.PairHigh,
		req.Status, req.CreatedAt, req.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case violatesUnique(err, constraintActivePair):
		return ErrDuplicateRequest
	case isForeignKeyViolation(err):
		return ErrUserNotFound
	default:
		return err
	}
}

// GetSwapRequest retrieves a request by ID.
func (r *SwapRequestRepository) GetSwapRequest(ctx context.Context, id string) (*model.SwapRequest, error) {
	query := r.db.Rebind(`SELECT ` + swapRequestColumns + ` FROM swap_requests WHERE id = ?`)

	req := &model.SwapRequest{}
	if err := r.db.GetContext(ctx, req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	return req, nil
}

// DecideSwapRequest moves a Pending request to status. The status guard in
// the WHERE clause keeps decided requests terminal under concurrent updates.
func (r *SwapRequestRepository) DecideSwapRequest(ctx context.Context, id string, status model.SwapStatus, at time.Time) error {
	query := r.db.Rebind(`UPDATE swap_requests SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`)

	result, err := r.db.ExecContext(ctx, query, status, at, id, model.StatusPending)
	if err != nil {
		if violatesUnique(err, constraintActivePair) {
			return ErrDuplicateRequest
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.GetSwapRequest(ctx, id); err != nil {
		return err
	}
	return ErrRequestDecided
}

// ListSwapRequests returns every request involving userID joined with the
// other party, most recently updated first.
func (r *SwapRequestRepository) ListSwapRequests(ctx context.Context, userID string) ([]model.SwapRequestView, error) {
	query := r.db.Rebind(`SELECT s.id, s.sender_id, s.receiver_id, s.pair_low, s.pair_high,
			s.status, s.created_at, s.updated_at,
			u.id AS counterpart_id, u.name AS counterpart_name, u.email AS counterpart_email
		FROM swap_requests s
		JOIN users u ON u.id = CASE WHEN s.sender_id = ? THEN s.receiver_id ELSE s.sender_id END
		WHERE s.sender_id = ? OR s.receiver_id = ?
		ORDER BY s.updated_at DESC, s.id DESC`)

	views := []model.SwapRequestView{}
	if err := r.db.SelectContext(ctx, &views, query, userID, userID, userID); err != nil {
		return nil, err
	}
	return views, nil
}

// HasAcceptedPair reports whether the normalized pair has an Accepted request.
func (r *SwapRequestRepository) HasAcceptedPair(ctx context.Context, low, high string) (bool, error) {
	query := r.db.Rebind(`SELECT 1 FROM swap_requests
		WHERE pair_low = ? AND pair_high = ? AND status = ? LIMIT 1`)

	var one int
	err := r.db.GetContext(ctx, &one, query, low, high, model.StatusAccepted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

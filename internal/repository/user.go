package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/swaps/swaps-go/internal/model"
)

const userColumns = `id, name, email, password_hash, role, created_at`

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. The caller assigns the ID and timestamps.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	query := r.db.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	)
	return uniqueUserError(err)
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetUserByEmail retrieves a user by their email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}
	if err := r.db.GetContext(ctx, user, r.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all users, oldest first.
func (r *UserRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, id ASC`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser writes the user's name and email.
func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	query := r.db.Rebind(`UPDATE users SET name = ?, email = ? WHERE id = ?`)

	_, err := r.db.ExecContext(ctx, query, user.Name, user.Email, user.ID)
	return uniqueUserError(err)
}

// DeleteUser removes a user. Swap requests and messages go with it through
// ON DELETE CASCADE.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func uniqueUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case violatesUnique(err, constraintUserEmail):
		return ErrDuplicateEmail
	case violatesUnique(err, constraintUserName):
		return ErrDuplicateName
	default:
		return err
	}
}

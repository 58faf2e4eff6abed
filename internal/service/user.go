package service

import (
	"context"

	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

// UserService serves the member directory and admin user management.
type UserService struct {
	users repository.UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserStore) *UserService {
	return &UserService{users: users}
}

// ListUsers returns every user except excludeID. An empty excludeID lists all.
func (s *UserService) ListUsers(ctx context.Context, excludeID string) ([]model.UserResponse, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		if u.ID == excludeID {
			continue
		}
		result = append(result, u.ToResponse())
	}
	return result, nil
}

// DeleteUser removes a user and everything they own.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return mapUserError(s.users.DeleteUser(ctx, userID))
}

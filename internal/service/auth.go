package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/swaps/swaps-go/internal/crypto"
	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository"
)

// AuthService handles registration, login and self-service profile changes.
type AuthService struct {
	users     repository.UserStore
	jwtSecret string
	jwtExpiry time.Duration
	admins    map[string]bool
	hasher    *crypto.Hasher
	now       Clock
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithAdminEmails makes accounts registered with one of emails Admins.
func WithAdminEmails(emails []string) AuthOption {
	return func(s *AuthService) {
		for _, e := range emails {
			s.admins[normalizeEmail(e)] = true
		}
	}
}

// WithHashParams overrides the Argon2id parameters used for new passwords.
func WithHashParams(p crypto.HashParams) AuthOption {
	return func(s *AuthService) { s.hasher = crypto.NewHasher(p) }
}

// WithAuthClock overrides the clock used for account timestamps.
func WithAuthClock(c Clock) AuthOption {
	return func(s *AuthService) { s.now = c }
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserStore, secret string, expiry time.Duration, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:     users,
		jwtSecret: secret,
		jwtExpiry: expiry,
		admins:    make(map[string]bool),
		hasher:    crypto.NewHasher(crypto.DefaultHashParams()),
		now:       SystemClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)

	switch {
	case name == "":
		return model.AuthResponse{}, ErrNameRequired
	case email == "":
		return model.AuthResponse{}, ErrEmailRequired
	case req.Password == "":
		return model.AuthResponse{}, ErrPasswordRequired
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	role := model.RoleUser
	if s.admins[email] {
		role = model.RoleAdmin
	}

	user := &model.User{
		ID:           newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return model.AuthResponse{}, mapUserError(err)
	}

	return s.authResponse(user)
}

// Login authenticates a user and returns an auth token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID string) (model.UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, mapUserError(err)
	}
	return user.ToResponse(), nil
}

// UpdateProfile changes the caller's display name and/or email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return model.UserResponse{}, mapUserError(err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return model.UserResponse{}, ErrNameRequired
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return model.UserResponse{}, ErrEmailRequired
		}
		user.Email = email
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return model.UserResponse{}, mapUserError(err)
	}
	return user.ToResponse(), nil
}

// DeleteAccount removes the caller's account, their swap requests and messages.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	return mapUserError(s.users.DeleteUser(ctx, userID))
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := crypto.GenerateToken(user.ID, string(user.Role), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.ToResponse(),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mapUserError translates repository user errors into service errors.
func mapUserError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicateName):
		return ErrNameTaken
	default:
		return err
	}
}

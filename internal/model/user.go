package model

import "time"

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// User represents a user in the database.
type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries the profile fields a user may change.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// AuthResponse represents an authentication response with a token and user info.
type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserResponse represents user data safe for API responses (no password hash).
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse strips the sensitive fields from u.
func (u User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserList wraps a list of users.
type UserList struct {
	Success bool           `json:"success"`
	Users   []UserResponse `json:"users"`
}

// UserEnvelope wraps a single user.
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// StatusResponse is returned by operations that have nothing else to report.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Package auth implements login, registration and the password reset flow.
package auth

import (
	"context"
	"time"
)

// User is the credential view of an account used during authentication.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	RoleName     string
}

// Repository defines data access methods for authentication.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
	DefaultRoleID(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, username, email, passwordHash string, roleID int64) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
}

// ResetStore tracks issued password reset tokens so each is honored once.
type ResetStore interface {
	Save(ctx context.Context, jti string, ttl time.Duration) error
	// Consume atomically claims the jti; it returns false when the token
	// was never issued or has already been used.
	Consume(ctx context.Context, jti string) (bool, error)
}

// ResetDispatcher delivers the reset token to the account holder.
type ResetDispatcher interface {
	DispatchPasswordReset(ctx context.Context, email, resetToken string) error
}

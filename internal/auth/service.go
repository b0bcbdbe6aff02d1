package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// TokenIssuer covers the token operations the auth flow needs.
type TokenIssuer interface {
	Issue(userID int64, username, role string) (string, error)
	IssueReset(userID int64) (signed, jti string, err error)
	VerifyReset(tokenString string) (userID int64, jti string, err error)
}

// Service handles authentication business rules.
type Service struct {
	logger     *slog.Logger
	repo       Repository
	tokens     TokenIssuer
	resets     ResetStore
	dispatcher ResetDispatcher
	resetTTL   time.Duration
}

// NewService builds Service instance.
func NewService(logger *slog.Logger, repo Repository, tokens TokenIssuer, resets ResetStore, dispatcher ResetDispatcher, resetTTL time.Duration) *Service {
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	return &Service{
		logger:     logger,
		repo:       repo,
		tokens:     tokens,
		resets:     resets,
		dispatcher: dispatcher,
		resetTTL:   resetTTL,
	}
}

// Login verifies the credentials and returns a signed access token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", shared.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID, user.Username, user.RoleName)
}

// Register creates a new account with the default role.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	taken, err := s.repo.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return err
	}
	if taken {
		return httpx.Wrap(httpx.ErrConflict, "Username or email already exists.")
	}
	roleID, err := s.repo.DefaultRoleID(ctx)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.CreateUser(ctx, username, email, string(hash), roleID)
}

// RequestPasswordReset issues a single-use reset token and dispatches it to
// the account's email. The outcome is identical whether or not the account
// exists, so the endpoint cannot be used to enumerate addresses.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrInvalidCredentials) && s.logger != nil {
			s.logger.Error("password reset lookup", slog.Any("error", err))
		}
		return nil
	}
	signed, jti, err := s.tokens.IssueReset(user.ID)
	if err != nil {
		return err
	}
	if err := s.resets.Save(ctx, jti, s.resetTTL); err != nil {
		return err
	}
	if err := s.dispatcher.DispatchPasswordReset(ctx, user.Email, signed); err != nil {
		if s.logger != nil {
			s.logger.Error("dispatch password reset", slog.Any("error", err))
		}
	}
	return nil
}

// ResetPassword validates the reset token, burns its jti and stores the
// new password hash.
func (s *Service) ResetPassword(ctx context.Context, tokenString, password string) error {
	userID, jti, err := s.tokens.VerifyReset(tokenString)
	if err != nil {
		return httpx.Wrap(httpx.ErrUnauthorized, "Invalid or expired reset token.")
	}
	ok, err := s.resets.Consume(ctx, jti)
	if err != nil {
		return err
	}
	if !ok {
		return httpx.Wrap(httpx.ErrUnauthorized, "Invalid or expired reset token.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(hash))
}

package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/openoffice/openoffice-api/internal/platform/db"
	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Service handles user management business rules.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of users with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]User, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	meta := shared.NewPagination(page, perPage, total)
	users, err := s.repo.List(ctx, meta.PerPage, meta.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, meta, nil
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return User{}, httpx.Wrap(httpx.ErrNotFound, "User not found.")
		}
		return User{}, err
	}
	return user, nil
}

// Create inserts a new user after uniqueness and role checks.
func (s *Service) Create(ctx context.Context, params CreateParams) (User, error) {
	if taken, err := s.repo.UsernameExists(ctx, params.Username, 0); err != nil {
		return User{}, err
	} else if taken {
		return User{}, httpx.Wrap(httpx.ErrConflict, "Username already exists.")
	}
	if taken, err := s.repo.EmailExists(ctx, params.Email, 0); err != nil {
		return User{}, err
	} else if taken {
		return User{}, httpx.Wrap(httpx.ErrConflict, "Email already exists.")
	}
	if ok, err := s.repo.RoleExists(ctx, params.RoleID); err != nil {
		return User{}, err
	} else if !ok {
		return User{}, httpx.Wrap(httpx.ErrValidation, "Invalid role_id.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	params.Firstname = strings.TrimSpace(params.Firstname)
	params.Lastname = strings.TrimSpace(params.Lastname)

	user, err := s.repo.Create(ctx, params, string(hash))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, httpx.Wrap(httpx.ErrConflict, "Username or email already exists.")
		}
		return User{}, err
	}
	return user, nil
}

// Update modifies an existing user; nil fields stay unchanged.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return User{}, err
	}
	if params.Username != nil {
		if taken, err := s.repo.UsernameExists(ctx, *params.Username, id); err != nil {
			return User{}, err
		} else if taken {
			return User{}, httpx.Wrap(httpx.ErrConflict, "Username already exists.")
		}
	}
	if params.Email != nil {
		if taken, err := s.repo.EmailExists(ctx, *params.Email, id); err != nil {
			return User{}, err
		} else if taken {
			return User{}, httpx.Wrap(httpx.ErrConflict, "Email already exists.")
		}
	}
	if params.RoleID != nil {
		if ok, err := s.repo.RoleExists(ctx, *params.RoleID); err != nil {
			return User{}, err
		} else if !ok {
			return User{}, httpx.Wrap(httpx.ErrValidation, "Invalid role_id.")
		}
	}

	var passwordHash *string
	if params.Password != nil && *params.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		hashed := string(hash)
		passwordHash = &hashed
	}

	user, err := s.repo.Update(ctx, id, params, passwordHash)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return User{}, httpx.Wrap(httpx.ErrNotFound, "User not found.")
		}
		if db.IsUniqueViolation(err) {
			return User{}, httpx.Wrap(httpx.ErrConflict, "Username or email already exists.")
		}
		return User{}, err
	}
	return user, nil
}

// Delete removes a user. The primary admin is exempt.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id == PrimaryAdminID {
		return httpx.Wrap(httpx.ErrForbidden, "The primary admin user cannot be deleted.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoRows) {
			return httpx.Wrap(httpx.ErrNotFound, "User not found.")
		}
		return err
	}
	return nil
}

// ProfileFor resolves the caller's profile from their token identity.
func (s *Service) ProfileFor(ctx context.Context, userID int64, username, role string) (Profile, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Profile{}, httpx.Wrap(httpx.ErrUnauthorized, "Unable to retrieve user details from token.")
		}
		return Profile{}, err
	}
	return Profile{
		UserID:   userID,
		Username: username,
		Email:    user.Email,
		Role:     role,
	}, nil
}

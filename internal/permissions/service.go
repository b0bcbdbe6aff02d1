package permissions

import (
	"context"
	"errors"
	"strings"

	"github.com/openoffice/openoffice-api/internal/platform/db"
	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Service handles permission business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of permissions with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Permission, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	meta := shared.NewPagination(page, perPage, total)
	perms, err := s.repo.List(ctx, meta.PerPage, meta.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return perms, meta, nil
}

// Get fetches a permission by id.
func (s *Service) Get(ctx context.Context, id int64) (Permission, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Permission{}, httpx.Wrap(httpx.ErrNotFound, "Permission not found.")
		}
		return Permission{}, err
	}
	return p, nil
}

// Create inserts a new uniquely named permission.
func (s *Service) Create(ctx context.Context, name, description string) (Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Permission{}, httpx.Wrap(httpx.ErrValidation, "Permission name is required.")
	}
	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return Permission{}, err
	}
	if exists {
		return Permission{}, httpx.Wrap(httpx.ErrConflict, "A permission with this name already exists.")
	}
	p, err := s.repo.Create(ctx, name, strings.TrimSpace(description))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Permission{}, httpx.Wrap(httpx.ErrConflict, "A permission with this name already exists.")
		}
		return Permission{}, err
	}
	return p, nil
}

// Update modifies an existing permission.
func (s *Service) Update(ctx context.Context, id int64, name, description string) (Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Permission{}, httpx.Wrap(httpx.ErrValidation, "Permission name is required.")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return Permission{}, err
	}
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return Permission{}, err
	}
	if exists {
		return Permission{}, httpx.Wrap(httpx.ErrConflict, "A permission with this name already exists.")
	}
	p, err := s.repo.Update(ctx, id, name, strings.TrimSpace(description))
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Permission{}, httpx.Wrap(httpx.ErrNotFound, "Permission not found.")
		}
		return Permission{}, err
	}
	return p, nil
}

// Delete removes a permission after cascading its role links.
func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNoRows) {
		return httpx.Wrap(httpx.ErrNotFound, "Permission not found.")
	}
	return err
}

// Ensure upserts a permission by name. Used by seeding.
func (s *Service) Ensure(ctx context.Context, name, description string) (Permission, error) {
	return s.repo.Ensure(ctx, strings.TrimSpace(name), strings.TrimSpace(description))
}

package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/openoffice/openoffice-api/internal/platform/db"
	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/shared"
)

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns a page of roles with pagination metadata.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Role, shared.Pagination, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	meta := shared.NewPagination(page, perPage, total)
	roles, err := s.repo.List(ctx, meta.PerPage, meta.Offset())
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return roles, meta, nil
}

// Get fetches a role by id.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Role{}, httpx.Wrap(httpx.ErrNotFound, "Role not found.")
		}
		return Role{}, err
	}
	return role, nil
}

// Create inserts a uniquely named role with an optional permission set.
func (s *Service) Create(ctx context.Context, name, description string, permissionIDs []int64) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, httpx.Wrap(httpx.ErrValidation, "Role name is required.")
	}
	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return Role{}, err
	}
	if exists {
		return Role{}, httpx.Wrap(httpx.ErrConflict, "A role with this name already exists.")
	}
	permissionIDs = dedupe(permissionIDs)
	if err := s.validatePermissionIDs(ctx, permissionIDs); err != nil {
		return Role{}, err
	}
	role, err := s.repo.Create(ctx, name, strings.TrimSpace(description), permissionIDs)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Role{}, httpx.Wrap(httpx.ErrConflict, "A role with this name already exists.")
		}
		return Role{}, err
	}
	return role, nil
}

// Update modifies a role. A provided permission set replaces the previous
// one wholesale.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (Role, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return Role{}, err
	}
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return Role{}, httpx.Wrap(httpx.ErrValidation, "Role name is required.")
		}
		exists, err := s.repo.ExistsByName(ctx, name, id)
		if err != nil {
			return Role{}, err
		}
		if exists {
			return Role{}, httpx.Wrap(httpx.ErrConflict, "A role with this name already exists.")
		}
		params.Name = &name
	}
	if params.PermissionIDs != nil {
		ids := dedupe(*params.PermissionIDs)
		if err := s.validatePermissionIDs(ctx, ids); err != nil {
			return Role{}, err
		}
		params.PermissionIDs = &ids
	}
	role, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, ErrNoRows) {
			return Role{}, httpx.Wrap(httpx.ErrNotFound, "Role not found.")
		}
		if db.IsUniqueViolation(err) {
			return Role{}, httpx.Wrap(httpx.ErrConflict, "A role with this name already exists.")
		}
		return Role{}, err
	}
	return role, nil
}

// Delete removes a role unless it is protected or still referenced.
func (s *Service) Delete(ctx context.Context, id int64) error {
	role, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if IsDefault(role.Name) {
		return httpx.Wrap(httpx.ErrForbidden, "Default roles cannot be deleted.")
	}
	users, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return httpx.Wrap(httpx.ErrValidation, "Cannot delete role because there are users assigned to it.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoRows) {
			return httpx.Wrap(httpx.ErrNotFound, "Role not found.")
		}
		return err
	}
	return nil
}

func (s *Service) validatePermissionIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	count, err := s.repo.CountExistingPermissions(ctx, ids)
	if err != nil {
		return err
	}
	if count != len(ids) {
		return httpx.Wrap(httpx.ErrValidation, "One or more permission IDs are invalid.")
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package roles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
)

type mockRepository struct {
	roles       map[int64]*Role
	nextID      int64
	userCounts  map[int64]int
	permissions map[int64]struct{}
	deleted     []int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles:       make(map[int64]*Role),
		nextID:      1,
		userCounts:  make(map[int64]int),
		permissions: make(map[int64]struct{}),
	}
}

func (m *mockRepository) addRole(name string) *Role {
	role := &Role{ID: m.nextID, Name: name, PermissionIDs: []int64{}}
	m.roles[role.ID] = role
	m.nextID++
	return role
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Role, error) {
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	return len(m.roles), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Role, error) {
	if r, ok := m.roles[id]; ok {
		return *r, nil
	}
	return Role{}, ErrNoRows
}

func (m *mockRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, r := range m.roles {
		if r.Name == name && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) Create(ctx context.Context, name, description string, permissionIDs []int64) (Role, error) {
	role := m.addRole(name)
	role.Description = description
	role.PermissionIDs = permissionIDs
	return *role, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, params UpdateParams) (Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return Role{}, ErrNoRows
	}
	if params.Name != nil {
		role.Name = *params.Name
	}
	if params.Description != nil {
		role.Description = *params.Description
	}
	if params.PermissionIDs != nil {
		role.PermissionIDs = *params.PermissionIDs
	}
	return *role, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.roles[id]; !ok {
		return ErrNoRows
	}
	delete(m.roles, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockRepository) CountUsers(ctx context.Context, roleID int64) (int, error) {
	return m.userCounts[roleID], nil
}

func (m *mockRepository) CountExistingPermissions(ctx context.Context, ids []int64) (int, error) {
	count := 0
	for _, id := range ids {
		if _, ok := m.permissions[id]; ok {
			count++
		}
	}
	return count, nil
}

func responseFor(err error) *httptest.ResponseRecorder {
	res := httptest.NewRecorder()
	httpx.RespondError(res, err)
	return res
}

func TestCreateRequiresName(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), "   ", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Equal(t, http.StatusBadRequest, responseFor(err).Code)
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newMockRepository()
	repo.addRole("auditor")
	service := NewService(repo)

	_, err := service.Create(context.Background(), "auditor", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrConflict))
	assert.Equal(t, http.StatusConflict, responseFor(err).Code)
}

func TestCreateValidatesPermissionIDs(t *testing.T) {
	repo := newMockRepository()
	repo.permissions[10] = struct{}{}
	service := NewService(repo)

	_, err := service.Create(context.Background(), "auditor", "", []int64{10, 99})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))

	role, err := service.Create(context.Background(), "auditor", "Read only", []int64{10, 10})
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, role.PermissionIDs, "duplicates collapse before attach")
}

func TestDeleteProtectsDefaultRoles(t *testing.T) {
	for _, name := range []string{"admin", "Manager", "EMPLOYEE"} {
		repo := newMockRepository()
		role := repo.addRole(name)
		service := NewService(repo)

		err := service.Delete(context.Background(), role.ID)
		require.Error(t, err, "role %q", name)
		assert.True(t, errors.Is(err, httpx.ErrForbidden))
		assert.Empty(t, repo.deleted)
	}
}

func TestDeleteRejectsRoleWithUsers(t *testing.T) {
	repo := newMockRepository()
	role := repo.addRole("auditor")
	repo.userCounts[role.ID] = 3
	service := NewService(repo)

	err := service.Delete(context.Background(), role.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
	assert.Equal(t, http.StatusBadRequest, responseFor(err).Code)
}

func TestDeleteUnknownRole(t *testing.T) {
	service := NewService(newMockRepository())

	err := service.Delete(context.Background(), 77)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestDeleteRemovesUnprotectedRole(t *testing.T) {
	repo := newMockRepository()
	role := repo.addRole("auditor")
	service := NewService(repo)

	require.NoError(t, service.Delete(context.Background(), role.ID))
	assert.Equal(t, []int64{role.ID}, repo.deleted)
}

func TestUpdateRenameToDuplicate(t *testing.T) {
	repo := newMockRepository()
	repo.addRole("auditor")
	target := repo.addRole("reporter")
	service := NewService(repo)

	name := "auditor"
	_, err := service.Update(context.Background(), target.ID, UpdateParams{Name: &name})
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrConflict))
}

package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
)

type mockRepository struct {
	perms  map[int64]*Permission
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{perms: make(map[int64]*Permission), nextID: 1}
}

func (m *mockRepository) add(name string) *Permission {
	p := &Permission{ID: m.nextID, Name: name}
	m.perms[p.ID] = p
	m.nextID++
	return p
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]Permission, error) {
	out := make([]Permission, 0, len(m.perms))
	for _, p := range m.perms {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	return len(m.perms), nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (Permission, error) {
	if p, ok := m.perms[id]; ok {
		return *p, nil
	}
	return Permission{}, ErrNoRows
}

func (m *mockRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	for _, p := range m.perms {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) Create(ctx context.Context, name, description string) (Permission, error) {
	p := m.add(name)
	p.Description = description
	return *p, nil
}

func (m *mockRepository) Update(ctx context.Context, id int64, name, description string) (Permission, error) {
	p, ok := m.perms[id]
	if !ok {
		return Permission{}, ErrNoRows
	}
	p.Name = name
	p.Description = description
	return *p, nil
}

func (m *mockRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := m.perms[id]; !ok {
		return ErrNoRows
	}
	delete(m.perms, id)
	return nil
}

func (m *mockRepository) Ensure(ctx context.Context, name, description string) (Permission, error) {
	for _, p := range m.perms {
		if p.Name == name {
			p.Description = description
			return *p, nil
		}
	}
	return m.Create(ctx, name, description)
}

func TestCreateRequiresName(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Create(context.Background(), "  ", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrValidation))
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newMockRepository()
	repo.add("roles:index")
	service := NewService(repo)

	_, err := service.Create(context.Background(), "roles:index", "dup")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrConflict))
}

func TestUpdateUnknownPermission(t *testing.T) {
	service := NewService(newMockRepository())

	_, err := service.Update(context.Background(), 42, "roles:index", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestDeleteUnknownPermission(t *testing.T) {
	service := NewService(newMockRepository())

	err := service.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, httpx.ErrNotFound))
}

func TestEnsureIsIdempotent(t *testing.T) {
	service := NewService(newMockRepository())

	first, err := service.Ensure(context.Background(), "roles:index", "view roles")
	require.NoError(t, err)
	second, err := service.Ensure(context.Background(), "roles:index", "view the roles list")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "view the roles list", second.Description)
}

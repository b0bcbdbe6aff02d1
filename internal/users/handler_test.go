package users_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openoffice/openoffice-api/internal/routes"
	"github.com/openoffice/openoffice-api/internal/shared"
	"github.com/openoffice/openoffice-api/internal/token"
	"github.com/openoffice/openoffice-api/internal/users"
	_ "github.com/openoffice/openoffice-api/testing"
)

type profileRepo struct {
	user *users.User
}

func (r *profileRepo) List(ctx context.Context, limit, offset int) ([]users.User, error) {
	return nil, nil
}
func (r *profileRepo) Count(ctx context.Context) (int, error) { return 0, nil }
func (r *profileRepo) Get(ctx context.Context, id int64) (users.User, error) {
	if r.user != nil && r.user.ID == id {
		return *r.user, nil
	}
	return users.User{}, users.ErrNoRows
}
func (r *profileRepo) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	return false, nil
}
func (r *profileRepo) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	return false, nil
}
func (r *profileRepo) RoleExists(ctx context.Context, roleID int64) (bool, error) { return true, nil }
func (r *profileRepo) Create(ctx context.Context, params users.CreateParams, passwordHash string) (users.User, error) {
	return users.User{}, nil
}
func (r *profileRepo) Update(ctx context.Context, id int64, params users.UpdateParams, passwordHash *string) (users.User, error) {
	return users.User{}, nil
}
func (r *profileRepo) Delete(ctx context.Context, id int64) error { return nil }

type staticNavigator struct {
	links []routes.NavigationLink
}

func (n *staticNavigator) BuildNavigation(ctx context.Context) []routes.NavigationLink {
	return n.links
}

func TestProfileIncludesNavigation(t *testing.T) {
	repo := &profileRepo{user: &users.User{ID: 7, Username: "jdoe", Email: "jdoe@openoffice.local"}}
	handler := users.NewHandler(nil, users.NewService(repo))
	handler.SetNavigator(&staticNavigator{links: []routes.NavigationLink{
		{Method: http.MethodGet, URL: "/", Label: "Home", HasPermission: true},
		{Method: http.MethodGet, URL: "/settings/roles", Label: "Roles", HasPermission: false},
	}})

	claims := &token.Claims{UserID: 7, Username: "jdoe", Role: "employee"}
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req = req.WithContext(shared.ContextWithClaims(req.Context(), claims))

	res := httptest.NewRecorder()
	handler.Profile(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))

	assert.Equal(t, "success", body["status"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "jdoe", data["username"])
	assert.Equal(t, "employee", data["role"])

	links := body["available_links"].([]any)
	require.Len(t, links, 2)
	first := links[0].(map[string]any)
	assert.Equal(t, "Home", first["label"])
	assert.Equal(t, true, first["has_permission"])
}

func TestProfileWithoutClaims(t *testing.T) {
	handler := users.NewHandler(nil, users.NewService(&profileRepo{}))

	res := httptest.NewRecorder()
	handler.Profile(res, httptest.NewRequest(http.MethodGet, "/user", nil))

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

package app

import (
	"net/http"

	"github.com/openoffice/openoffice-api/internal/auth"
	"github.com/openoffice/openoffice-api/internal/permissions"
	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/roles"
	"github.com/openoffice/openoffice-api/internal/routes"
	"github.com/openoffice/openoffice-api/internal/users"
)

// Handlers groups the endpoint handlers referenced by the route table.
type Handlers struct {
	Auth        *auth.Handler
	Roles       *roles.Handler
	Permissions *permissions.Handler
	Users       *users.Handler
	// RoutesIndex serves the route catalog. It is bound late because the
	// table that answers it is built from these groups.
	RoutesIndex http.HandlerFunc
}

// Home answers the public landing route.
func Home(w http.ResponseWriter, r *http.Request) {
	httpx.Success(w, http.StatusOK, "Welcome to the OpenOffice API.", nil)
}

// BuildRouteGroups declares the full route table. Declaration order is
// dispatch order; the first matching route wins.
func BuildRouteGroups(h Handlers) []routes.Group {
	return []routes.Group{
		{
			Name: "auth",
			Routes: []routes.Route{
				{Method: http.MethodPost, URL: "/auth/login", Handler: h.Auth.Login, Permission: "auth:login"},
				{Method: http.MethodPost, URL: "/auth/register", Handler: h.Auth.Register, Permission: "auth:register"},
				{Method: http.MethodPost, URL: "/auth/logout", Handler: h.Auth.Logout},
				{Method: http.MethodPost, URL: "/auth/forgot-password", Handler: h.Auth.ForgotPassword, Permission: "auth:forgotPassword"},
				{Method: http.MethodPost, URL: "/auth/reset-password", Handler: h.Auth.ResetPassword, Permission: "auth:resetPassword"},
			},
		},
		{
			Name: "general",
			Routes: []routes.Route{
				{Method: http.MethodGet, URL: "/", Handler: Home, Permission: "index", Label: "Home"},
				{Method: http.MethodGet, URL: "/user", Handler: h.Users.Profile, Label: "My Account"},
				{Method: http.MethodGet, URL: "/routes", Handler: h.RoutesIndex, Permission: "routes:index"},
			},
		},
		{
			Name: "roles",
			Routes: []routes.Route{
				{Method: http.MethodGet, URL: "/settings/roles", Handler: h.Roles.Index, Permission: "roles:index", Label: "Roles"},
				{Method: http.MethodGet, URL: "/settings/roles/:id", Handler: h.Roles.Show, Permission: "roles:show"},
				{Method: http.MethodPost, URL: "/settings/roles", Handler: h.Roles.Store, Permission: "roles:store"},
				{Method: http.MethodPut, URL: "/settings/roles/:id", Handler: h.Roles.Update, Permission: "roles:update"},
				{Method: http.MethodDelete, URL: "/settings/roles/:id", Handler: h.Roles.Destroy, Permission: "roles:destroy"},
			},
		},
		{
			Name: "permissions",
			Routes: []routes.Route{
				{Method: http.MethodGet, URL: "/settings/permissions", Handler: h.Permissions.Index, Permission: "permissions:index", Label: "Permissions"},
				{Method: http.MethodGet, URL: "/settings/permissions/:id", Handler: h.Permissions.Show, Permission: "permissions:show"},
				{Method: http.MethodPost, URL: "/settings/permissions", Handler: h.Permissions.Store, Permission: "permissions:store"},
				{Method: http.MethodPut, URL: "/settings/permissions/:id", Handler: h.Permissions.Update, Permission: "permissions:update"},
				{Method: http.MethodDelete, URL: "/settings/permissions/:id", Handler: h.Permissions.Destroy, Permission: "permissions:destroy"},
			},
		},
		{
			Name: "users",
			Routes: []routes.Route{
				{Method: http.MethodGet, URL: "/settings/users", Handler: h.Users.Index, Permission: "users:index", Label: "Users"},
				{Method: http.MethodGet, URL: "/settings/users/:id", Handler: h.Users.Show, Permission: "users:show"},
				{Method: http.MethodPost, URL: "/settings/users", Handler: h.Users.Store, Permission: "users:store"},
				{Method: http.MethodPut, URL: "/settings/users/:id", Handler: h.Users.Update, Permission: "users:update"},
				{Method: http.MethodDelete, URL: "/settings/users/:id", Handler: h.Users.Destroy, Permission: "users:destroy"},
			},
		},
	}
}

package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/openoffice/openoffice-api/internal/auth"
	"github.com/openoffice/openoffice-api/internal/observability"
	"github.com/openoffice/openoffice-api/internal/permissions"
	"github.com/openoffice/openoffice-api/internal/rbac"
	"github.com/openoffice/openoffice-api/internal/roles"
	"github.com/openoffice/openoffice-api/internal/routes"
	"github.com/openoffice/openoffice-api/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	Gate               *rbac.Gate
	Permissions        routes.PermissionSource
	AuthHandler        *auth.Handler
	RolesHandler       *roles.Handler
	PermissionsHandler *permissions.Handler
	UsersHandler       *users.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with the API defaults. Every API
// endpoint dispatches through the declarative route table; chi carries the
// middleware chain plus the health and metrics endpoints.
func NewRouter(params RouterParams) (http.Handler, error) {
	// The catalog endpoint is answered by the table itself, which is built
	// from the groups that reference it. The closure resolves after NewTable.
	var table *routes.Table
	groups := BuildRouteGroups(Handlers{
		Auth:        params.AuthHandler,
		Roles:       params.RolesHandler,
		Permissions: params.PermissionsHandler,
		Users:       params.UsersHandler,
		RoutesIndex: func(w http.ResponseWriter, r *http.Request) {
			table.Index(w, r)
		},
	})

	var err error
	table, err = routes.NewTable(groups, params.Gate, params.Permissions, params.Logger)
	if err != nil {
		return nil, err
	}
	params.UsersHandler.SetNavigator(table)

	r := chi.NewRouter()
	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.NotFound(table.ServeHTTP)
	return r, nil
}

// Package routes holds the declarative route table that dispatches API
// requests and derives the permission-filtered navigation menu.
package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/openoffice/openoffice-api/internal/platform/httpx"
	"github.com/openoffice/openoffice-api/internal/rbac"
)

// Route describes one dispatchable endpoint.
type Route struct {
	Method string
	// URL is a path pattern; segments starting with ':' capture one
	// non-slash path segment under that name.
	URL     string
	Handler http.HandlerFunc
	// Permission required to reach the handler. Empty means any
	// authenticated caller; names in the public set need no token.
	Permission string
	// Label marks the route as a navigation menu entry. Only labeled GET
	// routes appear in the menu.
	Label string
}

// Group is an ordered collection of routes sharing a concern.
type Group struct {
	Name   string
	Routes []Route
}

// Authorizer gates dispatch on the caller's permissions.
type Authorizer interface {
	Authorize(ctx context.Context, authorization, permission string) (context.Context, error)
	CanAccess(ctx context.Context, permission string) bool
}

// PermissionSource resolves permission names to ids for navigation entries.
type PermissionSource interface {
	PermissionIDByName(ctx context.Context, name string) (int64, error)
}

type compiledRoute struct {
	route   Route
	pattern *regexp.Regexp
}

// Table dispatches requests by scanning routes in declaration order.
// The first method+pattern match wins; overlapping patterns therefore
// resolve by position, so order matters when declaring groups.
type Table struct {
	groups   []Group
	compiled []compiledRoute
	gate     Authorizer
	perms    PermissionSource
	logger   *slog.Logger
}

// NewTable compiles the route groups into a dispatch table.
func NewTable(groups []Group, gate Authorizer, perms PermissionSource, logger *slog.Logger) (*Table, error) {
	t := &Table{groups: groups, gate: gate, perms: perms, logger: logger}
	for _, g := range groups {
		for _, route := range g.Routes {
			pattern, err := compilePattern(route.URL)
			if err != nil {
				return nil, fmt.Errorf("routes: compile %s %s: %w", route.Method, route.URL, err)
			}
			t.compiled = append(t.compiled, compiledRoute{route: route, pattern: pattern})
		}
	}
	return t, nil
}

// ServeHTTP matches the request against the table, runs the authorization
// gate and hands control to the handler with captured path parameters.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = "/"
	}

	for _, cr := range t.compiled {
		if cr.route.Method != r.Method {
			continue
		}
		m := cr.pattern.FindStringSubmatch(path)
		if m == nil {
			continue
		}

		ctx, err := t.gate.Authorize(r.Context(), r.Header.Get("Authorization"), cr.route.Permission)
		if err != nil {
			t.respondGateError(w, err)
			return
		}

		params := make(map[string]string)
		for i, name := range cr.pattern.SubexpNames() {
			if i > 0 && name != "" {
				params[name] = m[i]
			}
		}
		if len(params) > 0 {
			ctx = context.WithValue(ctx, paramsContextKey{}, params)
		}
		setPattern(ctx, cr.route.URL)

		cr.route.Handler(w, r.WithContext(ctx))
		return
	}

	httpx.Error(w, http.StatusNotFound, fmt.Sprintf("No route matches %s %s.", r.Method, path))
}

// respondGateError terminates the request with the taxonomy status for a
// gate failure. Handlers never see a rejected request.
func (t *Table) respondGateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rbac.ErrNoToken):
		httpx.Error(w, http.StatusUnauthorized, "Authorization token not found.")
	case errors.Is(err, rbac.ErrInvalidToken):
		httpx.Error(w, http.StatusUnauthorized, "Invalid or expired token.")
	case errors.Is(err, rbac.ErrUnknownRole):
		httpx.Error(w, http.StatusForbidden, "User role from token is invalid.")
	case errors.Is(err, rbac.ErrPermissionDenied):
		httpx.Error(w, http.StatusForbidden, "You do not have permission to access this resource.")
	default:
		if t.logger != nil {
			t.logger.Error("authorization gate", slog.Any("error", err))
		}
		httpx.Error(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}

func compilePattern(url string) (*regexp.Regexp, error) {
	segments := strings.Split(url, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = fmt.Sprintf(`(?P<%s>[^/]+)`, regexp.QuoteMeta(seg[1:]))
		} else {
			segments[i] = regexp.QuoteMeta(seg)
		}
	}
	return regexp.Compile("^" + strings.Join(segments, "/") + "$")
}

package rbac

import (
	"context"
	"log/slog"
	"strings"

	"github.com/openoffice/openoffice-api/internal/shared"
	"github.com/openoffice/openoffice-api/internal/token"
)

const bearerPrefix = "Bearer "

// publicPermissions name the routes reachable with no token at all.
var publicPermissions = map[string]struct{}{
	"auth:login":          {},
	"auth:register":       {},
	"auth:forgotPassword": {},
	"auth:resetPassword":  {},
	"index":               {},
}

// IsPublic reports whether the permission belongs to the public set.
func IsPublic(permission string) bool {
	_, ok := publicPermissions[permission]
	return ok
}

// Verifier decodes and validates access tokens.
type Verifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Gate is the request-scoped authorization decision point.
type Gate struct {
	codec  Verifier
	store  Store
	logger *slog.Logger
}

// NewGate constructs a Gate.
func NewGate(codec Verifier, store Store, logger *slog.Logger) *Gate {
	return &Gate{codec: codec, store: store, logger: logger}
}

// Authorize runs the hard gate for a route requiring the given permission.
// On success it returns a context carrying the caller's claims; on failure
// it returns one of ErrNoToken, ErrInvalidToken, ErrUnknownRole or
// ErrPermissionDenied and the request must not proceed.
func (g *Gate) Authorize(ctx context.Context, authorization, permission string) (context.Context, error) {
	if IsPublic(permission) {
		return ctx, nil
	}

	raw, ok := bearerToken(authorization)
	if !ok {
		return ctx, ErrNoToken
	}

	claims, err := g.codec.Verify(raw)
	if err != nil {
		return ctx, ErrInvalidToken
	}

	ctx = shared.ContextWithClaims(ctx, claims)

	// Authentication alone suffices when the route names no permission.
	if permission == "" {
		return ctx, nil
	}

	roleID, err := g.store.RoleIDByName(ctx, claims.Role)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("resolve role from token", slog.String("role", claims.Role), slog.Any("error", err))
		}
		return ctx, ErrUnknownRole
	}

	granted, err := g.store.RoleHasPermission(ctx, roleID, permission)
	if err != nil {
		if g.logger != nil {
			g.logger.Error("permission lookup", slog.String("permission", permission), slog.Any("error", err))
		}
		return ctx, ErrPermissionDenied
	}
	if !granted {
		return ctx, ErrPermissionDenied
	}
	return ctx, nil
}

// CanAccess is the soft gate: same rule ordering as Authorize, but it
// answers a boolean instead of halting. It never grants on error.
func (g *Gate) CanAccess(ctx context.Context, permission string) bool {
	if IsPublic(permission) {
		return true
	}
	claims := shared.ClaimsFromContext(ctx)
	if claims == nil {
		return false
	}
	if permission == "" {
		return true
	}
	roleID, err := g.store.RoleIDByName(ctx, claims.Role)
	if err != nil {
		return false
	}
	granted, err := g.store.RoleHasPermission(ctx, roleID, permission)
	if err != nil {
		return false
	}
	return granted
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}

package shared

import (
	"context"

	"github.com/openoffice/openoffice-api/internal/token"
)

type claimsContextKey struct{}

// ContextWithClaims stores the authenticated caller's claims in the request
// context. The value is immutable and scoped to a single request.
func ContextWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext extracts the caller's claims, or nil when the request
// has not passed authentication.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims
}

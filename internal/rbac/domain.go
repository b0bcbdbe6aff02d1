// Package rbac resolves roles to permission grants and gates requests on
// them. Every ambiguous or failing check resolves to deny.
package rbac

import (
	"context"
	"errors"
)

// ErrNotFound indicates that the requested record does not exist.
var ErrNotFound = errors.New("rbac: not found")

// Gate failure modes, mapped to HTTP statuses by the route dispatcher.
var (
	// ErrNoToken indicates a missing or malformed Authorization header.
	ErrNoToken = errors.New("rbac: authorization token not found")
	// ErrInvalidToken indicates a token that failed verification.
	ErrInvalidToken = errors.New("rbac: invalid or expired token")
	// ErrUnknownRole indicates the role named in a valid token does not exist.
	ErrUnknownRole = errors.New("rbac: user role from token is invalid")
	// ErrPermissionDenied indicates the caller's role lacks the permission.
	ErrPermissionDenied = errors.New("rbac: permission denied")
)

// Store answers role and permission lookups against the credential store.
// All access is read-only.
type Store interface {
	// RoleIDByName resolves a role name with an exact, case-sensitive match.
	RoleIDByName(ctx context.Context, name string) (int64, error)
	// RoleHasPermission reports whether a role_permissions row links the
	// role to the named permission.
	RoleHasPermission(ctx context.Context, roleID int64, permission string) (bool, error)
	// PermissionIDByName resolves a permission name to its id.
	PermissionIDByName(ctx context.Context, name string) (int64, error)
}

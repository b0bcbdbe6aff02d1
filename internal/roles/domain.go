package roles

import (
	"strings"
	"time"
)

// Role represents a named permission grouping assigned to users.
type Role struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PermissionIDs []int64   `json:"permission_ids"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// defaultRoles can never be deleted, regardless of the caller's grants.
var defaultRoles = map[string]struct{}{
	"admin":    {},
	"manager":  {},
	"employee": {},
}

// IsDefault reports whether the role name belongs to the protected set.
// The check is case-insensitive.
func IsDefault(name string) bool {
	_, ok := defaultRoles[strings.ToLower(name)]
	return ok
}

// UpdateParams carries the optional fields of a role update. Nil fields
// are left untouched; a non-nil PermissionIDs replaces the whole set.
type UpdateParams struct {
	Name          *string
	Description   *string
	PermissionIDs *[]int64
}

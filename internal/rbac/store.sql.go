package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

// PGStore provides PostgreSQL backed lookups.
type PGStore struct {
	pool  *pgxpool.Pool
	group singleflight.Group
}

// NewPGStore constructs a store backed by the provided pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// RoleIDByName resolves a role name to its id.
func (s *PGStore) RoleIDByName(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

// RoleHasPermission reports whether the role grants the named permission.
func (s *PGStore) RoleHasPermission(ctx context.Context, roleID int64, permission string) (bool, error) {
	const query = `SELECT COUNT(*)
		FROM role_permissions rp
		JOIN permissions p ON rp.permission_id = p.id
		WHERE rp.role_id = $1 AND p.name = $2`
	var count int
	if err := s.pool.QueryRow(ctx, query, roleID, permission).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// PermissionIDByName resolves a permission name to its id. Concurrent
// lookups for the same name are collapsed into one query.
func (s *PGStore) PermissionIDByName(ctx context.Context, name string) (int64, error) {
	v, err, _ := s.group.Do("perm:"+name, func() (any, error) {
		var id int64
		err := s.pool.QueryRow(ctx, `SELECT id FROM permissions WHERE name = $1`, name).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return int64(0), ErrNotFound
			}
			return int64(0), err
		}
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openoffice/openoffice-api/internal/platform/db"
)

// ErrNoRows indicates the role does not exist.
var ErrNoRows = errors.New("roles: no rows")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns a page of roles ordered by id, each with its permission ids.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Role, error) {
	const query = `SELECT r.id, r.name, r.description, r.created_at, r.updated_at,
		COALESCE(array_agg(rp.permission_id) FILTER (WHERE rp.permission_id IS NOT NULL), '{}')
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		GROUP BY r.id
		ORDER BY r.id
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt, &role.PermissionIDs); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// Count returns the total number of roles.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&total)
	return total, err
}

// Get fetches a role by id with its permission ids.
func (r *Repository) Get(ctx context.Context, id int64) (Role, error) {
	const query = `SELECT r.id, r.name, r.description, r.created_at, r.updated_at,
		COALESCE(array_agg(rp.permission_id) FILTER (WHERE rp.permission_id IS NOT NULL), '{}')
		FROM roles r
		LEFT JOIN role_permissions rp ON rp.role_id = r.id
		WHERE r.id = $1
		GROUP BY r.id`
	var role Role
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt, &role.PermissionIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNoRows
		}
		return Role{}, err
	}
	return role, nil
}

// ExistsByName reports whether another role already uses the name.
func (r *Repository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles WHERE name = $1 AND id <> $2`, name, excludeID).Scan(&count)
	return count > 0, err
}

// Create inserts a role and attaches the given permissions in one transaction.
func (r *Repository) Create(ctx context.Context, name, description string, permissionIDs []int64) (Role, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id`,
			name, description).Scan(&id); err != nil {
			return err
		}
		return attachPermissions(ctx, tx, id, permissionIDs)
	})
	if err != nil {
		return Role{}, err
	}
	return r.Get(ctx, id)
}

// Update modifies a role; a non-nil permission set replaces all links.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) (Role, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if params.Name != nil || params.Description != nil {
			tag, err := tx.Exec(ctx,
				`UPDATE roles SET
					name = COALESCE($2, name),
					description = COALESCE($3, description),
					updated_at = now()
				WHERE id = $1`,
				id, params.Name, params.Description)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return ErrNoRows
			}
		}
		if params.PermissionIDs != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
				return err
			}
			return attachPermissions(ctx, tx, id, *params.PermissionIDs)
		}
		return nil
	})
	if err != nil {
		return Role{}, err
	}
	return r.Get(ctx, id)
}

// Delete removes a role and its permission links in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNoRows
		}
		return nil
	})
}

// CountUsers returns how many users reference the role.
func (r *Repository) CountUsers(ctx context.Context, roleID int64) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, roleID).Scan(&count)
	return count, err
}

// CountExistingPermissions returns how many of the given ids exist.
func (r *Repository) CountExistingPermissions(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE id = ANY($1)`, ids).Scan(&count)
	return count, err
}

func attachPermissions(ctx context.Context, tx pgx.Tx, roleID int64, permissionIDs []int64) error {
	for _, pid := range permissionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			roleID, pid); err != nil {
			return err
		}
	}
	return nil
}

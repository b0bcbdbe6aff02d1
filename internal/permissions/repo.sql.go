package permissions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openoffice/openoffice-api/internal/platform/db"
)

// ErrNoRows indicates the permission does not exist.
var ErrNoRows = errors.New("permissions: no rows")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns a page of permissions ordered by id.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description FROM permissions ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return perms, nil
}

// Count returns the total number of permissions.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&total)
	return total, err
}

// Get fetches a permission by id.
func (r *Repository) Get(ctx context.Context, id int64) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx, `SELECT id, name, description FROM permissions WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, ErrNoRows
		}
		return Permission{}, err
	}
	return p, nil
}

// ExistsByName reports whether another permission already uses the name.
func (r *Repository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM permissions WHERE name = $1 AND id <> $2`, name, excludeID).Scan(&count)
	return count > 0, err
}

// Create inserts a new permission.
func (r *Repository) Create(ctx context.Context, name, description string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (name, description) VALUES ($1, $2) RETURNING id, name, description`,
		name, description).Scan(&p.ID, &p.Name, &p.Description)
	return p, err
}

// Update modifies an existing permission.
func (r *Repository) Update(ctx context.Context, id int64, name, description string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`UPDATE permissions SET name = $2, description = $3 WHERE id = $1 RETURNING id, name, description`,
		id, name, description).Scan(&p.ID, &p.Name, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, ErrNoRows
		}
		return Permission{}, err
	}
	return p, nil
}

// Delete removes a permission and its role links in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM role_permissions WHERE permission_id = $1`, id); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNoRows
		}
		return nil
	})
}

// Ensure upserts a permission by name, keeping the description current.
func (r *Repository) Ensure(ctx context.Context, name, description string) (Permission, error) {
	var p Permission
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (name, description) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
		 RETURNING id, name, description`,
		name, description).Scan(&p.ID, &p.Name, &p.Description)
	return p, err
}

package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoRows indicates the user does not exist.
var ErrNoRows = errors.New("users: no rows")

const userColumns = `u.id, u.username, u.email, u.password, u.firstname, u.lastname,
	u.role_id, r.name, u.created_at, u.updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Firstname, &u.Lastname,
		&u.RoleID, &u.RoleName, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNoRows
		}
		return User{}, err
	}
	return u, nil
}

// List returns a page of users with their role names.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users u JOIN roles r ON u.role_id = r.id ORDER BY u.id LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}

// Get fetches a user by id.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users u JOIN roles r ON u.role_id = r.id WHERE u.id = $1`, id))
}

// UsernameExists reports whether another user already uses the username.
func (r *Repository) UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1 AND id <> $2`, username, excludeID).Scan(&count)
	return count > 0, err
}

// EmailExists reports whether another user already uses the email.
func (r *Repository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`, email, excludeID).Scan(&count)
	return count > 0, err
}

// RoleExists reports whether the role id references an existing role.
func (r *Repository) RoleExists(ctx context.Context, roleID int64) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles WHERE id = $1`, roleID).Scan(&count)
	return count > 0, err
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, params CreateParams, passwordHash string) (User, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password, firstname, lastname, role_id)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		params.Username, params.Email, passwordHash, params.Firstname, params.Lastname, params.RoleID).Scan(&id)
	if err != nil {
		return User{}, err
	}
	return r.Get(ctx, id)
}

// Update modifies a user; nil fields are left untouched.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams, passwordHash *string) (User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET
			username = COALESCE($2, username),
			email = COALESCE($3, email),
			password = COALESCE($4, password),
			firstname = COALESCE($5, firstname),
			lastname = COALESCE($6, lastname),
			role_id = COALESCE($7, role_id),
			updated_at = now()
		WHERE id = $1`,
		id, params.Username, params.Email, passwordHash, params.Firstname, params.Lastname, params.RoleID)
	if err != nil {
		return User{}, err
	}
	if tag.RowsAffected() == 0 {
		return User{}, ErrNoRows
	}
	return r.Get(ctx, id)
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

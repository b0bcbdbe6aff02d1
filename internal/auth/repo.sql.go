package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openoffice/openoffice-api/internal/shared"
)

// defaultRoleName is assigned to self-registered accounts.
const defaultRoleName = "employee"

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const credentialQuery = `SELECT u.id, u.username, u.email, u.password, u.role_id, r.name
	FROM users u JOIN roles r ON u.role_id = r.id`

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.RoleID, &u.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	return &u, nil
}

// FindByUsername fetches credentials by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, credentialQuery+` WHERE u.username = $1`, username)
}

// FindByEmail fetches credentials by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, credentialQuery+` WHERE u.email = $1`, email)
}

// UsernameOrEmailTaken reports whether either identifier is in use.
func (r *PGRepository) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE username = $1 OR email = $2`, username, email).Scan(&count)
	return count > 0, err
}

// DefaultRoleID resolves the role assigned to new registrations.
func (r *PGRepository) DefaultRoleID(ctx context.Context) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, defaultRoleName).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, errors.New("auth: default user role not found")
		}
		return 0, err
	}
	return id, nil
}

// CreateUser inserts a self-registered account.
func (r *PGRepository) CreateUser(ctx context.Context, username, email, passwordHash string, roleID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (username, email, password, role_id) VALUES ($1, $2, $3, $4)`,
		username, email, passwordHash, roleID)
	return err
}

// UpdatePassword replaces the stored password hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password = $2, updated_at = now() WHERE id = $1`,
		userID, passwordHash)
	return err
}

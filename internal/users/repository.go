package users

import "context"

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (User, error)
	UsernameExists(ctx context.Context, username string, excludeID int64) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
	RoleExists(ctx context.Context, roleID int64) (bool, error)
	Create(ctx context.Context, params CreateParams, passwordHash string) (User, error)
	Update(ctx context.Context, id int64, params UpdateParams, passwordHash *string) (User, error)
	Delete(ctx context.Context, id int64) error
}

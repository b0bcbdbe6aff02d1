package permissions

import "context"

// RepositoryPort defines data access methods for permissions.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Permission, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (Permission, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, name, description string) (Permission, error)
	Update(ctx context.Context, id int64, name, description string) (Permission, error)
	Delete(ctx context.Context, id int64) error
	Ensure(ctx context.Context, name, description string) (Permission, error)
}

package roles

import "context"

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Role, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id int64) (Role, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, name, description string, permissionIDs []int64) (Role, error)
	Update(ctx context.Context, id int64, params UpdateParams) (Role, error)
	Delete(ctx context.Context, id int64) error
	CountUsers(ctx context.Context, roleID int64) (int, error)
	CountExistingPermissions(ctx context.Context, ids []int64) (int, error)
}

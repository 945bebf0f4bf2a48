package resource

import "context"

// Repository executes single-table operations against the remote store.
// Filters are exact-match column filters; Update returns ErrNotFound when no
// row matched.
type Repository interface {
	List(ctx context.Context, table string, q ListOptions) ([]Row, error)
	Insert(ctx context.Context, table string, row Row) (Row, error)
	Upsert(ctx context.Context, table string, row Row, onConflict string) (Row, error)
	Update(ctx context.Context, table string, filters map[string]string, patch Row) (Row, error)
	Delete(ctx context.Context, table string, filters map[string]string) error
}

// RepositoryFactory builds a Repository authorized as the caller in ctx.
type RepositoryFactory interface {
	ForUser(ctx context.Context) (Repository, error)
}

package packages

import (
	"context"

	"tour-backoffice/internal/domain/access"
)

type Service interface {
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*View, error)
	Update(ctx context.Context, actor access.Principal, id string, req UpdateRequest) (*View, error)
	Delete(ctx context.Context, id string) error
	BulkDelete(ctx context.Context, ids []string) (*BulkDeleteResult, error)
	Get(ctx context.Context, id string) (*View, error)
	List(ctx context.Context, q ListQuery) ([]View, int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

package members

import (
	"context"

	"tour-backoffice/internal/domain/access"
)

// Service manages member records. Get and ByUser scope MEMBER callers to
// the members they own.
type Service interface {
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*View, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*View, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, actor access.Principal, id string) (*View, error)
	List(ctx context.Context, q ListQuery) ([]View, int64, error)
	ByUser(ctx context.Context, actor access.Principal, userID string) ([]View, error)
}

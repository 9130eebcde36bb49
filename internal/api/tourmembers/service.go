package tourmembers

import (
	"context"

	"tour-backoffice/internal/domain/access"
)

// Service manages enrollments and their payment ledgers. Every returned
// View carries ledger fields computed from the committed payments.
type Service interface {
	Create(ctx context.Context, actor access.Principal, req CreateRequest) (*View, error)
	Update(ctx context.Context, actor access.Principal, id string, req UpdateRequest) (*View, error)
	Delete(ctx context.Context, actor access.Principal, id string) error

	AddPayment(ctx context.Context, actor access.Principal, id string, req PaymentRequest) (*View, error)
	UpdatePayment(ctx context.Context, actor access.Principal, id, paymentID string, req PaymentRequest) (*View, error)
	DeletePayment(ctx context.Context, actor access.Principal, id, paymentID string, expectedVersion *int) (*View, error)

	Get(ctx context.Context, actor access.Principal, id string) (*View, error)
	List(ctx context.Context, actor access.Principal, q ListQuery) ([]View, int64, error)
	Stats(ctx context.Context) (*Stats, error)
	StatsByTour(ctx context.Context, packageID string) (*TourStats, error)
}

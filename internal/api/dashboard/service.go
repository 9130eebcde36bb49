package dashboard

import (
	"context"
	"time"
)

// Service computes read-only rollups over enrollments and payments.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
	RecentBookings(ctx context.Context, limit int) (*RecentBookings, error)
	RevenueTrends(ctx context.Context, months int) (*RevenueTrends, error)
	PopularPackages(ctx context.Context, limit int) (*PopularPackages, error)
	Realtime(ctx context.Context, lastUpdated *time.Time) (*Realtime, error)
}

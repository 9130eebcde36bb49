package packages

import (
	"time"

	"github.com/shopspring/decimal"

	"tour-backoffice/internal/domain/capacity"
	"tour-backoffice/internal/domain/ledger"
	"tour-backoffice/internal/domain/tours"
	"tour-backoffice/internal/domain/users"
)

type CreateRequest struct {
	PackageName string           `json:"packageName" binding:"required,max=200"`
	TourPrice   *decimal.Decimal `json:"tourPrice"`
	TotalSeat   int              `json:"totalSeat" binding:"required,gt=0"`
	CoverPhoto  string           `json:"coverPhoto" binding:"omitempty,url,max=2048"`
	Description string           `json:"desc" binding:"max=5000"`
	Extra       map[string]any   `json:"extra"`
}

// UpdateRequest uses pointers so absent fields stay unchanged.
type UpdateRequest struct {
	PackageName *string          `json:"packageName" binding:"omitempty,min=1,max=200"`
	TourPrice   *decimal.Decimal `json:"tourPrice"`
	TotalSeat   *int             `json:"totalSeat" binding:"omitempty,gt=0"`
	CoverPhoto  *string          `json:"coverPhoto" binding:"omitempty,max=2048"`
	Description *string          `json:"desc" binding:"omitempty,max=5000"`
	Extra       map[string]any   `json:"extra"`
}

type BulkDeleteRequest struct {
	PackageIDs []string `json:"packageIds" binding:"required,min=1,max=100,dive,uuid"`
}

type ListQuery struct {
	Page        int
	Limit       int
	PackageName string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	MinSeats    *int
	MaxSeats    *int
	SortBy      string
	SortOrder   string
}

type View struct {
	ID             string         `json:"id"`
	PackageName    string         `json:"packageName"`
	TourPrice      string         `json:"tourPrice"`
	TotalSeat      int            `json:"totalSeat"`
	BookedSeats    int64          `json:"bookedSeats"`
	AvailableSeats int64          `json:"availableSeats"`
	CoverPhoto     string         `json:"coverPhoto"`
	Description    string         `json:"desc"`
	Extra          map[string]any `json:"extra"`
	CreatedBy      *users.Ref     `json:"createdBy,omitempty"`
	CreatedByID    string         `json:"createdById"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type Stats struct {
	TotalPackages int64      `json:"totalPackages"`
	AveragePrice  string     `json:"averagePrice"`
	TotalSeats    int64      `json:"totalSeats"`
	PriceRange    PriceRange `json:"priceRange"`
}

type BulkDeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

func toView(p tours.TourPackage, booked int64) View {
	v := View{
		ID:             p.ID,
		PackageName:    p.PackageName,
		TourPrice:      p.TourPrice.StringFixed(ledger.Scale),
		TotalSeat:      p.TotalSeat,
		BookedSeats:    booked,
		AvailableSeats: capacity.Available(p.TotalSeat, booked),
		CoverPhoto:     p.CoverPhoto,
		Description:    p.Description,
		Extra:          map[string]any(p.Extra),
		CreatedBy:      p.CreatedBy.Ref(),
		CreatedByID:    p.CreatedByID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if v.Extra == nil {
		v.Extra = map[string]any{}
	}
	return v
}

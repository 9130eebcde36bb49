package tours

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"tour-backoffice/internal/domain/users"
)

type TourPackage struct {
	ID          string            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PackageName string            `gorm:"column:package_name;not null;index" json:"packageName"`
	TourPrice   decimal.Decimal   `gorm:"column:tour_price;type:numeric(12,2);not null;default:0" json:"tourPrice"`
	TotalSeat   int               `gorm:"column:total_seat;not null;default:0;check:chk_tour_packages_total_seat,total_seat >= 0" json:"totalSeat"`
	CoverPhoto  string            `gorm:"column:cover_photo" json:"coverPhoto"`
	Description string            `gorm:"column:description" json:"desc"`
	Extra       datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"extra"`

	CreatedByID string      `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy   *users.User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sortable columns for package listings, keyed by their API name.
var SortColumns = map[string]string{
	"createdAt":   "created_at",
	"packageName": "package_name",
	"tourPrice":   "tour_price",
	"totalSeat":   "total_seat",
}

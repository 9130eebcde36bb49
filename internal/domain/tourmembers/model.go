package tourmembers

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tours"
	"tour-backoffice/internal/domain/users"
)

// TourMember is the enrollment of one member into one tour package. Its
// financial state is derived from Payments on every read and never stored.
type TourMember struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	MemberID string          `gorm:"type:uuid;not null;index" json:"memberId"`
	Member   *members.Member `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	PackageID string             `gorm:"type:uuid;not null;index" json:"packageId"`
	Package   *tours.TourPackage `gorm:"foreignKey:PackageID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Extra datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"extra"`

	// Version increases on every committed mutation of the enrollment or
	// its payments.
	Version int `gorm:"not null;default:1" json:"version"`
	// PaymentSeq is the last sequence number handed to a payment.
	PaymentSeq int `gorm:"column:payment_seq;not null;default:0" json:"-"`

	Payments []Payment `gorm:"foreignKey:TourMemberID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedByID string      `gorm:"type:uuid;not null;index" json:"createdById"`
	CreatedBy   *users.User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT;" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

type Payment struct {
	ID           string          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TourMemberID string          `gorm:"type:uuid;not null;uniqueIndex:idx_payments_tour_member_seq,priority:1" json:"tourMemberId"`
	Seq          int             `gorm:"not null;uniqueIndex:idx_payments_tour_member_seq,priority:2" json:"seq"`
	Amount       decimal.Decimal `gorm:"type:numeric(12,2);not null;check:chk_payments_amount_positive,amount > 0" json:"amount"`
	PaidAt       time.Time       `gorm:"not null;index" json:"paidAt"`
	Method       string          `gorm:"type:varchar(32)" json:"method,omitempty"`
	Note         string          `json:"note,omitempty"`

	CreatedByID string      `gorm:"type:uuid;not null" json:"createdById"`
	CreatedBy   *users.User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT;" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Payment) TableName() string { return "tour_member_payments" }

// Amounts returns the payment amounts in ledger order.
func (tm *TourMember) Amounts() []decimal.Decimal {
	out := make([]decimal.Decimal, len(tm.Payments))
	for i, p := range tm.Payments {
		out[i] = p.Amount
	}
	return out
}

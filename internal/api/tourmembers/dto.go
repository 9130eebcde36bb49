package tourmembers

import (
	"time"

	"github.com/shopspring/decimal"

	"tour-backoffice/internal/domain/capacity"
	"tour-backoffice/internal/domain/ledger"
	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/tours"
	"tour-backoffice/internal/domain/users"
)

type CreateRequest struct {
	MemberID  string            `json:"memberId" binding:"required,uuid"`
	PackageID string            `json:"packageId" binding:"required,uuid"`
	Extra     map[string]any    `json:"extra"`
	Image     *members.Document `json:"image"`
}

// UpdateRequest changes non-financial fields only. ExpectedVersion, when
// set, must match the stored version.
type UpdateRequest struct {
	MemberID        *string           `json:"memberId" binding:"omitempty,uuid"`
	Extra           map[string]any    `json:"extra"`
	Image           *members.Document `json:"image"`
	ExpectedVersion *int              `json:"expectedVersion" binding:"omitempty,gte=1"`
}

type PaymentRequest struct {
	Amount          *decimal.Decimal `json:"amount"`
	PaidAt          *time.Time       `json:"paidAt"`
	Method          *string          `json:"method" binding:"omitempty,max=32"`
	Note            *string          `json:"note" binding:"omitempty,max=500"`
	ExpectedVersion *int             `json:"expectedVersion" binding:"omitempty,gte=1"`
}

type DeletePaymentRequest struct {
	ExpectedVersion *int `json:"expectedVersion" binding:"omitempty,gte=1"`
}

type ListQuery struct {
	Page          int
	Limit         int
	PackageID     string
	MemberID      string
	PaymentStatus ledger.Status
	Search        string
}

type MemberRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MobileNo string `json:"mobileNo"`
}

type PackageRef struct {
	ID             string `json:"id"`
	PackageName    string `json:"packageName"`
	TourPrice      string `json:"tourPrice"`
	TotalSeat      int    `json:"totalSeat"`
	BookedSeats    int64  `json:"bookedSeats"`
	AvailableSeats int64  `json:"availableSeats"`
}

type PaymentView struct {
	ID          string    `json:"id"`
	Seq         int       `json:"seq"`
	Amount      string    `json:"amount"`
	PaidAt      time.Time `json:"paidAt"`
	Method      string    `json:"method,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedByID string    `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}

// View is an enrollment with its ledger fields derived at read time.
type View struct {
	ID            string         `json:"id"`
	MemberID      string         `json:"memberId"`
	PackageID     string         `json:"packageId"`
	Member        *MemberRef     `json:"member,omitempty"`
	Package       *PackageRef    `json:"package,omitempty"`
	Extra         map[string]any `json:"extra"`
	Version       int            `json:"version"`
	Payments      []PaymentView  `json:"payments"`
	AmountPaid    string         `json:"amountPaid"`
	BalanceDue    string         `json:"balanceDue"`
	PaymentStatus ledger.Status  `json:"paymentStatus"`
	CreatedBy     *users.Ref     `json:"createdBy,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type StatusCounts struct {
	Unpaid  int `json:"UNPAID"`
	Partial int `json:"PARTIAL"`
	Paid    int `json:"PAID"`
}

type Stats struct {
	TotalEnrollments int          `json:"totalEnrollments"`
	TotalExpected    string       `json:"totalExpected"`
	TotalCollected   string       `json:"totalCollected"`
	TotalOutstanding string       `json:"totalOutstanding"`
	ByStatus         StatusCounts `json:"byStatus"`
}

type TourStats struct {
	Stats
	Package        PackageRef `json:"package"`
	TotalSeat      int        `json:"totalSeat"`
	BookedSeats    int64      `json:"bookedSeats"`
	AvailableSeats int64      `json:"availableSeats"`
}

func money(d decimal.Decimal) string { return d.StringFixed(ledger.Scale) }

func toStats(t ledger.Totals) Stats {
	if t.ByStatus == nil {
		t = ledger.NewTotals()
	}
	return Stats{
		TotalEnrollments: t.Count,
		TotalExpected:    money(t.Expected),
		TotalCollected:   money(t.Collected),
		TotalOutstanding: money(t.Outstanding),
		ByStatus: StatusCounts{
			Unpaid:  t.ByStatus[ledger.StatusUnpaid],
			Partial: t.ByStatus[ledger.StatusPartial],
			Paid:    t.ByStatus[ledger.StatusPaid],
		},
	}
}

// toView derives the ledger fields. tm must have Package and Payments
// loaded; booked is the package's current enrollment count.
func toView(tm tourmembers.TourMember, booked int64) (View, error) {
	var price decimal.Decimal
	if tm.Package != nil {
		price = tm.Package.TourPrice
	}
	sum, err := ledger.Summarize(price, tm.Amounts())
	if err != nil {
		return View{}, err
	}

	v := View{
		ID:            tm.ID,
		MemberID:      tm.MemberID,
		PackageID:     tm.PackageID,
		Extra:         map[string]any(tm.Extra),
		Version:       tm.Version,
		Payments:      make([]PaymentView, 0, len(tm.Payments)),
		AmountPaid:    money(sum.AmountPaid),
		BalanceDue:    money(sum.BalanceDue),
		PaymentStatus: sum.Status,
		CreatedBy:     tm.CreatedBy.Ref(),
		CreatedAt:     tm.CreatedAt,
		UpdatedAt:     tm.UpdatedAt,
	}
	if v.Extra == nil {
		v.Extra = map[string]any{}
	}
	if tm.Member != nil {
		v.Member = &MemberRef{ID: tm.Member.ID, Name: tm.Member.Name, MobileNo: tm.Member.MobileNo}
	}
	if tm.Package != nil {
		ref := toPackageRef(*tm.Package, booked)
		v.Package = &ref
	}
	for _, p := range tm.Payments {
		v.Payments = append(v.Payments, PaymentView{
			ID:          p.ID,
			Seq:         p.Seq,
			Amount:      money(p.Amount),
			PaidAt:      p.PaidAt,
			Method:      p.Method,
			Note:        p.Note,
			CreatedByID: p.CreatedByID,
			CreatedAt:   p.CreatedAt,
		})
	}
	return v, nil
}

func toPackageRef(p tours.TourPackage, booked int64) PackageRef {
	return PackageRef{
		ID:             p.ID,
		PackageName:    p.PackageName,
		TourPrice:      money(p.TourPrice),
		TotalSeat:      p.TotalSeat,
		BookedSeats:    booked,
		AvailableSeats: capacity.Available(p.TotalSeat, booked),
	}
}

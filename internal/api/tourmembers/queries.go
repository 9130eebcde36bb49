package tourmembers

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tour-backoffice/internal/app/http/params"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/ledger"
	"tour-backoffice/internal/domain/tourmembers"
)

// paidSQL is the committed payment total of the current tour_members row.
const paidSQL = "COALESCE((SELECT SUM(p.amount) FROM tour_member_payments p WHERE p.tour_member_id = tour_members.id), 0)"

// scopedQuery limits MEMBER callers to enrollments of members they own.
func scopedQuery(db *gorm.DB, actor access.Principal) *gorm.DB {
	q := db.Model(&tourmembers.TourMember{}).
		Joins("JOIN members ON members.id = tour_members.member_id").
		Joins("JOIN tour_packages ON tour_packages.id = tour_members.package_id")
	if !access.IsStaff(actor.Role) {
		q = q.Where("members.user_id = ?", actor.UserID)
	}
	return q
}

func filteredQuery(db *gorm.DB, actor access.Principal, q ListQuery) *gorm.DB {
	tx := scopedQuery(db, actor)
	if q.PackageID != "" {
		tx = tx.Where("tour_members.package_id = ?", q.PackageID)
	}
	if q.MemberID != "" {
		tx = tx.Where("tour_members.member_id = ?", q.MemberID)
	}
	if q.Search != "" {
		tx = tx.Where("members.name ILIKE ?", params.Contains(q.Search))
	}

	// Same partition as ledger.Summarize: zero paid is UNPAID even for a
	// free package.
	switch q.PaymentStatus {
	case ledger.StatusUnpaid:
		tx = tx.Where(paidSQL + " = 0")
	case ledger.StatusPartial:
		tx = tx.Where(paidSQL + " > 0 AND " + paidSQL + " < tour_packages.tour_price")
	case ledger.StatusPaid:
		tx = tx.Where(paidSQL + " > 0 AND " + paidSQL + " >= tour_packages.tour_price")
	}
	return tx
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Member").
		Preload("Package").
		Preload("CreatedBy").
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq ASC")
		})
}

type ledgerRow struct {
	ID        string
	PackageID string
	Price     decimal.Decimal
	Paid      decimal.Decimal
}

// ledgerRows returns price and amount paid per enrollment, optionally for
// one package.
func ledgerRows(db *gorm.DB, packageID string) ([]ledgerRow, error) {
	q := db.Table("tour_members").
		Select("tour_members.id, tour_members.package_id, tour_packages.tour_price AS price, " + paidSQL + " AS paid").
		Joins("JOIN tour_packages ON tour_packages.id = tour_members.package_id")
	if packageID != "" {
		q = q.Where("tour_members.package_id = ?", packageID)
	}

	var rows []ledgerRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func tally(rows []ledgerRow) (ledger.Totals, error) {
	t := ledger.NewTotals()
	for _, r := range rows {
		s, err := ledger.FromTotal(r.Price, r.Paid)
		if err != nil {
			return t, err
		}
		t.Add(s)
	}
	return t, nil
}

package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	tmapi "tour-backoffice/internal/api/tourmembers"
	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/capacity"
	"tour-backoffice/internal/domain/dashboard"
	"tour-backoffice/internal/domain/ledger"
	"tour-backoffice/internal/domain/members"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/tours"
)

// Enrollments is the part of the tour-member service the dashboard reads
// through, so ledger figures come from the same derivation.
type Enrollments interface {
	Stats(ctx context.Context) (*tmapi.Stats, error)
	List(ctx context.Context, actor access.Principal, q tmapi.ListQuery) ([]tmapi.View, int64, error)
}

type service struct {
	db          *gorm.DB
	enrollments Enrollments
	now         func() time.Time
}

func NewService(db *gorm.DB, enrollments Enrollments) Service {
	return &service{db: db, enrollments: enrollments, now: time.Now}
}

// reader sees every enrollment.
var reader = access.Principal{Role: access.RoleAdmin}

func money(d decimal.Decimal) string { return d.StringFixed(ledger.Scale) }

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	monthStart := dashboard.MonthStart(now)
	prevStart := monthStart.AddDate(0, -1, 0)

	total, err := revenueBetween(db, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}
	monthly, err := revenueBetween(db, monthStart, time.Time{})
	if err != nil {
		return nil, err
	}
	previous, err := revenueBetween(db, prevStart, monthStart)
	if err != nil {
		return nil, err
	}

	var o Overview
	if err := db.Model(&tourmembers.TourMember{}).Count(&o.TotalBookings).Error; err != nil {
		return nil, apperr.FromDB(err, "tour members")
	}
	if err := db.Model(&tourmembers.TourMember{}).Where("created_at >= ?", monthStart).Count(&o.MonthlyBookings).Error; err != nil {
		return nil, apperr.FromDB(err, "tour members")
	}
	if err := db.Model(&tours.TourPackage{}).Count(&o.TotalPackages).Error; err != nil {
		return nil, apperr.FromDB(err, "tour packages")
	}
	if err := db.Model(&members.Member{}).Count(&o.TotalMembers).Error; err != nil {
		return nil, apperr.FromDB(err, "members")
	}

	pending, err := s.pending(ctx)
	if err != nil {
		return nil, err
	}
	pkgs, err := packageCounts(db)
	if err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		o.AvailableSeats += capacity.Available(p.TotalSeat, p.Enrollments)
	}

	o.TotalRevenue = money(total)
	o.MonthlyRevenue = money(monthly)
	o.PendingBookings = pending
	o.RecentGrowth = dashboard.Growth(monthly, previous).StringFixed(2)
	return &o, nil
}

func (s *service) RecentBookings(ctx context.Context, limit int) (*RecentBookings, error) {
	if limit < 1 || limit > dashboard.MaxRecentLimit {
		return nil, apperr.Validationf("Invalid limit parameter. Must be between 1 and %d", dashboard.MaxRecentLimit)
	}

	views, _, err := s.enrollments.List(ctx, reader, tmapi.ListQuery{Page: 1, Limit: limit})
	if err != nil {
		return nil, err
	}

	out := &RecentBookings{Bookings: make([]RecentBooking, 0, len(views))}
	for _, v := range views {
		b := RecentBooking{
			ID:            v.ID,
			MemberID:      v.MemberID,
			PackageID:     v.PackageID,
			AmountPaid:    v.AmountPaid,
			BalanceDue:    v.BalanceDue,
			PaymentStatus: v.PaymentStatus,
			CreatedAt:     v.CreatedAt,
		}
		if v.Member != nil {
			b.MemberName = v.Member.Name
		}
		if v.Package != nil {
			b.PackageName = v.Package.PackageName
			b.TourPrice = v.Package.TourPrice
		}
		out.Bookings = append(out.Bookings, b)
	}
	out.Total = len(out.Bookings)
	return out, nil
}

func (s *service) RevenueTrends(ctx context.Context, months int) (*RevenueTrends, error) {
	if err := dashboard.ValidateMonths(months); err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	start := dashboard.TrendStart(now, months)

	var revenue []struct {
		Month   time.Time
		Revenue decimal.Decimal
	}
	err := db.Model(&tourmembers.Payment{}).
		Select("date_trunc('month', paid_at AT TIME ZONE 'UTC') AS month, SUM(amount) AS revenue").
		Where("paid_at >= ?", start).
		Group("month").
		Scan(&revenue).Error
	if err != nil {
		return nil, apperr.FromDB(err, "payments")
	}

	var bookings []struct {
		Month    time.Time
		Bookings int64
	}
	err = db.Model(&tourmembers.TourMember{}).
		Select("date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COUNT(*) AS bookings").
		Where("created_at >= ?", start).
		Group("month").
		Scan(&bookings).Error
	if err != nil {
		return nil, apperr.FromDB(err, "tour members")
	}

	totals := make([]dashboard.MonthTotal, 0, len(revenue)+len(bookings))
	for _, r := range revenue {
		totals = append(totals, dashboard.MonthTotal{Month: r.Month, Revenue: r.Revenue})
	}
	for _, b := range bookings {
		totals = append(totals, dashboard.MonthTotal{Month: b.Month, Bookings: b.Bookings})
	}

	buckets, err := dashboard.RevenueTrend(now, months, totals)
	if err != nil {
		return nil, err
	}
	out := &RevenueTrends{Trends: make([]TrendPoint, 0, len(buckets)), Period: fmt.Sprintf("%d months", months)}
	for _, b := range buckets {
		out.Trends = append(out.Trends, TrendPoint{
			Month:    b.Month,
			Label:    b.Label,
			Revenue:  money(b.Revenue),
			Bookings: b.Bookings,
		})
	}
	return out, nil
}

func (s *service) PopularPackages(ctx context.Context, limit int) (*PopularPackages, error) {
	if err := dashboard.ValidatePopularLimit(limit); err != nil {
		return nil, err
	}
	counts, err := packageCounts(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	ranked, err := dashboard.RankPackages(counts, limit)
	if err != nil {
		return nil, err
	}

	out := &PopularPackages{Packages: make([]PopularPackage, 0, len(ranked))}
	for _, p := range ranked {
		out.Packages = append(out.Packages, PopularPackage{
			ID:             p.PackageID,
			PackageName:    p.PackageName,
			TotalSeat:      p.TotalSeat,
			Enrollments:    p.Enrollments,
			AvailableSeats: capacity.Available(p.TotalSeat, p.Enrollments),
			Revenue:        money(p.Revenue),
		})
	}
	out.Total = len(out.Packages)
	return out, nil
}

// Realtime reports today's figures. Without lastUpdated every call has
// updates; otherwise any row written after it counts. Deletions are not
// detected.
func (s *service) Realtime(ctx context.Context, lastUpdated *time.Time) (*Realtime, error) {
	db := s.db.WithContext(ctx)
	now := s.now().UTC()
	today := dashboard.DayStart(now)

	out := &Realtime{Timestamp: now, HasUpdates: true}
	if lastUpdated != nil {
		changed, err := changedSince(db, *lastUpdated)
		if err != nil {
			return nil, err
		}
		out.HasUpdates = changed
	}

	if err := db.Model(&tourmembers.TourMember{}).Where("created_at >= ?", today).Count(&out.QuickStats.TodayBookings).Error; err != nil {
		return nil, apperr.FromDB(err, "tour members")
	}
	revenue, err := revenueBetween(db, today, time.Time{})
	if err != nil {
		return nil, err
	}
	out.QuickStats.TodayRevenue = money(revenue)

	if out.QuickStats.PendingPayments, err = s.pending(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// pending counts enrollments not yet PAID.
func (s *service) pending(ctx context.Context) (int64, error) {
	st, err := s.enrollments.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return int64(st.ByStatus.Unpaid + st.ByStatus.Partial), nil
}

// revenueBetween sums payments with paid_at in [from, to). Zero bounds are
// open.
func revenueBetween(db *gorm.DB, from, to time.Time) (decimal.Decimal, error) {
	q := db.Model(&tourmembers.Payment{})
	if !from.IsZero() {
		q = q.Where("paid_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("paid_at < ?", to)
	}

	var row struct{ Total decimal.Decimal }
	if err := q.Select("COALESCE(SUM(amount), 0) AS total").Scan(&row).Error; err != nil {
		return decimal.Zero, apperr.FromDB(err, "payments")
	}
	return row.Total, nil
}

func packageCounts(db *gorm.DB) ([]dashboard.PackageCount, error) {
	var rows []dashboard.PackageCount
	err := db.Table("tour_packages").
		Select(`tour_packages.id AS package_id,
			tour_packages.package_name,
			tour_packages.total_seat,
			(SELECT COUNT(*) FROM tour_members t WHERE t.package_id = tour_packages.id) AS enrollments,
			COALESCE((SELECT SUM(p.amount) FROM tour_member_payments p
				JOIN tour_members t ON t.id = p.tour_member_id
				WHERE t.package_id = tour_packages.id), 0) AS revenue`).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "tour packages")
	}
	return rows, nil
}

func changedSince(db *gorm.DB, since time.Time) (bool, error) {
	for _, m := range []any{&tourmembers.TourMember{}, &tourmembers.Payment{}, &tours.TourPackage{}, &members.Member{}} {
		var n int64
		if err := db.Model(m).Where("updated_at > ?", since).Limit(1).Count(&n).Error; err != nil {
			return false, apperr.FromDB(err, "dashboard")
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// Package dashboard holds the pure parts of the reporting rollups: month
// bucketing, package ranking and growth. Months are calendar months in UTC.
package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"tour-backoffice/internal/domain/apperr"
)

const (
	DefaultTrendMonths = 6
	MaxTrendMonths     = 24

	DefaultPopularLimit = 5
	MaxPopularLimit     = 20

	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// MonthTotal is one month of raw figures as read from the store.
type MonthTotal struct {
	Month    time.Time
	Revenue  decimal.Decimal
	Bookings int64
}

// MonthBucket is one point of a revenue trend.
type MonthBucket struct {
	Month    string // YYYY-MM
	Label    string
	Revenue  decimal.Decimal
	Bookings int64
}

type PackageCount struct {
	PackageID   string
	PackageName string
	TotalSeat   int
	Enrollments int64
	Revenue     decimal.Decimal
}

func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ValidateMonths(months int) error {
	if months < 1 || months > MaxTrendMonths {
		return apperr.Validationf("Invalid months parameter. Must be between 1 and %d", MaxTrendMonths)
	}
	return nil
}

// TrendStart is the first instant of the oldest month in a trend of the
// given length ending with the month of now.
func TrendStart(now time.Time, months int) time.Time {
	return MonthStart(now).AddDate(0, -(months - 1), 0)
}

// RevenueTrend returns exactly months buckets, oldest first, ending with
// the month of now. Months without data are zero.
func RevenueTrend(now time.Time, months int, totals []MonthTotal) ([]MonthBucket, error) {
	if err := ValidateMonths(months); err != nil {
		return nil, err
	}

	byMonth := make(map[string]MonthTotal, len(totals))
	for _, t := range totals {
		key := MonthStart(t.Month).Format("2006-01")
		cur := byMonth[key]
		cur.Revenue = cur.Revenue.Add(t.Revenue)
		cur.Bookings += t.Bookings
		byMonth[key] = cur
	}

	start := TrendStart(now, months)
	out := make([]MonthBucket, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		t := byMonth[key]
		out = append(out, MonthBucket{
			Month:    key,
			Label:    m.Format("Jan 2006"),
			Revenue:  t.Revenue,
			Bookings: t.Bookings,
		})
	}
	return out, nil
}

func ValidatePopularLimit(limit int) error {
	if limit < 1 || limit > MaxPopularLimit {
		return apperr.Validationf("Invalid limit parameter. Must be between 1 and %d", MaxPopularLimit)
	}
	return nil
}

// RankPackages orders by enrollment count, then revenue, then name, and
// keeps the first limit entries. Packages without enrollments are kept so
// an empty catalogue still ranks.
func RankPackages(counts []PackageCount, limit int) ([]PackageCount, error) {
	if err := ValidatePopularLimit(limit); err != nil {
		return nil, err
	}

	ranked := append([]PackageCount(nil), counts...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Enrollments != b.Enrollments {
			return a.Enrollments > b.Enrollments
		}
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		return a.PackageName < b.PackageName
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Growth is the percentage change from previous to current, rounded to two
// places. Growth from nothing is 100 when anything was earned, else 0.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		if current.IsPositive() {
			return decimal.NewFromInt(100)
		}
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

package dashboard

import (
	"time"

	"tour-backoffice/internal/domain/ledger"
)

type Overview struct {
	TotalRevenue    string `json:"totalRevenue"`
	MonthlyRevenue  string `json:"monthlyRevenue"`
	TotalBookings   int64  `json:"totalBookings"`
	MonthlyBookings int64  `json:"monthlyBookings"`
	PendingBookings int64  `json:"pendingBookings"`
	AvailableSeats  int64  `json:"availableSeats"`
	RecentGrowth    string `json:"recentGrowth"`
	TotalPackages   int64  `json:"totalPackages"`
	TotalMembers    int64  `json:"totalMembers"`
}

type Summary struct {
	TotalRevenue    string `json:"totalRevenue"`
	MonthlyRevenue  string `json:"monthlyRevenue"`
	TotalBookings   int64  `json:"totalBookings"`
	MonthlyBookings int64  `json:"monthlyBookings"`
	PendingBookings int64  `json:"pendingBookings"`
	AvailableSeats  int64  `json:"availableSeats"`
	RecentGrowth    string `json:"recentGrowth"`
}

type RecentBooking struct {
	ID            string        `json:"id"`
	MemberID      string        `json:"memberId"`
	MemberName    string        `json:"memberName"`
	PackageID     string        `json:"packageId"`
	PackageName   string        `json:"packageName"`
	TourPrice     string        `json:"tourPrice"`
	AmountPaid    string        `json:"amountPaid"`
	BalanceDue    string        `json:"balanceDue"`
	PaymentStatus ledger.Status `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type RecentBookings struct {
	Bookings []RecentBooking `json:"bookings"`
	Total    int             `json:"total"`
}

type TrendPoint struct {
	Month    string `json:"month"`
	Label    string `json:"label"`
	Revenue  string `json:"revenue"`
	Bookings int64  `json:"bookings"`
}

type RevenueTrends struct {
	Trends []TrendPoint `json:"trends"`
	Period string       `json:"period"`
}

type PopularPackage struct {
	ID             string `json:"id"`
	PackageName    string `json:"packageName"`
	TotalSeat      int    `json:"totalSeat"`
	Enrollments    int64  `json:"enrollments"`
	AvailableSeats int64  `json:"availableSeats"`
	Revenue        string `json:"revenue"`
}

type PopularPackages struct {
	Packages []PopularPackage `json:"packages"`
	Total    int              `json:"total"`
}

type QuickStats struct {
	TodayBookings   int64  `json:"todayBookings"`
	TodayRevenue    string `json:"todayRevenue"`
	PendingPayments int64  `json:"pendingPayments"`
}

type Realtime struct {
	Timestamp  time.Time  `json:"timestamp"`
	HasUpdates bool       `json:"hasUpdates"`
	QuickStats QuickStats `json:"quickStats"`
}

func (o Overview) Summary() Summary {
	return Summary{
		TotalRevenue:    o.TotalRevenue,
		MonthlyRevenue:  o.MonthlyRevenue,
		TotalBookings:   o.TotalBookings,
		MonthlyBookings: o.MonthlyBookings,
		PendingBookings: o.PendingBookings,
		AvailableSeats:  o.AvailableSeats,
		RecentGrowth:    o.RecentGrowth,
	}
}

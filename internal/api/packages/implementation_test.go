package packages

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tour-backoffice/internal/domain/access"
	"tour-backoffice/internal/domain/apperr"
	"tour-backoffice/internal/domain/tourmembers"
	"tour-backoffice/internal/domain/users"
	"tour-backoffice/internal/testutil/pgtest"
)

type fixture struct {
	db    *gorm.DB
	svc   Service
	admin users.User
	actor access.Principal
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := pgtest.Open(t, "test_packages")
	pgtest.Reset(t, db)

	admin := pgtest.User(t, db, "admin@example.com", access.RoleAdmin)
	return fixture{
		db:    db,
		svc:   NewService(db),
		admin: admin,
		actor: access.Principal{UserID: admin.ID, Email: admin.Email, Role: admin.Role},
	}
}

func (f fixture) enroll(t *testing.T, packageID string) {
	t.Helper()
	m := pgtest.Member(t, f.db, "Ann", f.admin, nil)
	require.NoError(t, f.db.Create(&tourmembers.TourMember{
		MemberID:    m.ID,
		PackageID:   packageID,
		Version:     1,
		CreatedByID: f.admin.ID,
	}).Error)
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateAndGet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	v, err := f.svc.Create(ctx, f.actor, CreateRequest{
		PackageName: "  Bali  ",
		TourPrice:   price("1200.5"),
		TotalSeat:   3,
		Extra:       map[string]any{"nights": 7.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bali", v.PackageName)
	assert.Equal(t, "1200.50", v.TourPrice)
	assert.Equal(t, int64(3), v.AvailableSeats)
	assert.Equal(t, 7.0, v.Extra["nights"])
	require.NotNil(t, v.CreatedBy)
	assert.Equal(t, f.admin.Email, v.CreatedBy.Email)

	f.enroll(t, v.ID)
	got, err := f.svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.BookedSeats)
	assert.Equal(t, int64(2), got.AvailableSeats)
}

func TestCreateRejectsBadPrice(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.actor, CreateRequest{PackageName: "A", TotalSeat: 1})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = f.svc.Create(ctx, f.actor, CreateRequest{PackageName: "A", TourPrice: price("-1"), TotalSeat: 1})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = f.svc.Create(ctx, f.actor, CreateRequest{PackageName: "A", TourPrice: price("1.001"), TotalSeat: 1})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestUpdateSeatsAgainstBookings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	pkg := pgtest.Package(t, f.db, "Bali", "1000", 3, f.admin)
	f.enroll(t, pkg.ID)
	f.enroll(t, pkg.ID)

	one := 1
	_, err := f.svc.Update(ctx, f.actor, pkg.ID, UpdateRequest{TotalSeat: &one})
	assert.Equal(t, apperr.CapacityExceeded, apperr.KindOf(err))

	two := 2
	name := "Bali Deluxe"
	v, err := f.svc.Update(ctx, f.actor, pkg.ID, UpdateRequest{TotalSeat: &two, PackageName: &name, TourPrice: price("1500")})
	require.NoError(t, err)
	assert.Equal(t, 2, v.TotalSeat)
	assert.Equal(t, int64(0), v.AvailableSeats)
	assert.Equal(t, "Bali Deluxe", v.PackageName)
	assert.Equal(t, "1500.00", v.TourPrice)
}

func TestUpdateMergesExtra(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	v, err := f.svc.Create(ctx, f.actor, CreateRequest{
		PackageName: "Bali", TourPrice: price("10"), TotalSeat: 1,
		Extra: map[string]any{"a": "1", "b": "2"},
	})
	require.NoError(t, err)

	v, err = f.svc.Update(ctx, f.actor, v.ID, UpdateRequest{Extra: map[string]any{"a": nil, "c": "3"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": "2", "c": "3"}, v.Extra)
}

func TestDeletePackage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	free := pgtest.Package(t, f.db, "Free", "10", 1, f.admin)
	booked := pgtest.Package(t, f.db, "Booked", "10", 1, f.admin)
	f.enroll(t, booked.ID)

	require.NoError(t, f.svc.Delete(ctx, free.ID))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(f.svc.Delete(ctx, free.ID)))
	assert.Equal(t, apperr.Conflict, apperr.KindOf(f.svc.Delete(ctx, booked.ID)))

	_, err := f.svc.Get(ctx, booked.ID)
	assert.NoError(t, err)
}

func TestBulkDeleteIsAllOrNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := pgtest.Package(t, f.db, "A", "10", 1, f.admin)
	b := pgtest.Package(t, f.db, "B", "10", 1, f.admin)
	c := pgtest.Package(t, f.db, "C", "10", 1, f.admin)
	f.enroll(t, c.ID)

	_, err := f.svc.BulkDelete(ctx, []string{a.ID, c.ID})
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	_, err = f.svc.Get(ctx, a.ID)
	assert.NoError(t, err, "nothing is deleted when one package is referenced")

	res, err := f.svc.BulkDelete(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.DeletedCount)
}

func TestListFiltersAndSorts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	pgtest.Package(t, f.db, "Bali Beach", "1000", 10, f.admin)
	pgtest.Package(t, f.db, "Bali Hills", "500", 2, f.admin)
	pgtest.Package(t, f.db, "Oslo 100%", "2000", 5, f.admin)

	views, total, err := f.svc.List(ctx, ListQuery{Page: 1, Limit: 10, PackageName: "bali", SortBy: "tourPrice", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, "Bali Hills", views[0].PackageName)

	minSeats := 3
	views, total, err = f.svc.List(ctx, ListQuery{Page: 1, Limit: 10, MinPrice: price("600"), MinSeats: &minSeats})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, views, 2)

	views, total, err = f.svc.List(ctx, ListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, views, 1)

	_, total, err = f.svc.List(ctx, ListQuery{Page: 1, Limit: 10, PackageName: "%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "wildcards in the filter match literally")
}

func TestStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	empty, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &Stats{AveragePrice: "0.00", PriceRange: PriceRange{Min: "0.00", Max: "0.00"}}, empty)

	pgtest.Package(t, f.db, "A", "100", 10, f.admin)
	pgtest.Package(t, f.db, "B", "200", 5, f.admin)
	pgtest.Package(t, f.db, "C", "400", 1, f.admin)

	st, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalPackages)
	assert.Equal(t, "233.33", st.AveragePrice)
	assert.Equal(t, int64(16), st.TotalSeats)
	assert.Equal(t, PriceRange{Min: "100.00", Max: "400.00"}, st.PriceRange)
}

package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookingDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/booking"
	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	leaseDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/lease"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/uow"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/repository"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/testutil"
)

func newBooking(t *testing.T, userID, flatID uuid.UUID) *bookingDomain.Booking {
	t.Helper()
	d, err := bookingDomain.ParseRequestedDate("2025-02-01")
	require.NoError(t, err)
	bk, err := bookingDomain.NewBooking(userID, flatID, d)
	require.NoError(t, err)
	return bk
}

func TestBookingRepository_SaveAndFind(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")
	u := testutil.SeedUser(t, db, "r@example.com", auth.RoleResident)

	repo := repository.NewGormBookingRepository(db)
	bk := newBooking(t, u.ID(), f.ID())
	require.NoError(t, repo.Save(ctx, bk))

	got, err := repo.FindByID(ctx, bk.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusPending, got.Status())
	assert.Equal(t, "2025-02-01", bookingDomain.FormatDate(got.RequestedDate()))

	exists, err := repo.ExistsPending(ctx, u.ID(), f.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestBookingRepository_SecondPendingIsDuplicate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")
	u := testutil.SeedUser(t, db, "r@example.com", auth.RoleResident)

	repo := repository.NewGormBookingRepository(db)
	require.NoError(t, repo.Save(ctx, newBooking(t, u.ID(), f.ID())))

	err := repo.Save(ctx, newBooking(t, u.ID(), f.ID()))
	de := domain.AsError(err)
	require.NotNil(t, de)
	assert.Equal(t, domain.KindConflict, de.Kind)
	assert.Equal(t, domain.CodeDuplicatePending, de.Code)
}

func TestBookingRepository_DeclinedDoesNotBlockNewRequest(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")
	u := testutil.SeedUser(t, db, "r@example.com", auth.RoleResident)

	repo := repository.NewGormBookingRepository(db)
	first := newBooking(t, u.ID(), f.ID())
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, first.Decline())
	first.IncrementVersion()
	require.NoError(t, repo.UpdateStatus(ctx, first, bookingDomain.StatusPending))

	assert.NoError(t, repo.Save(ctx, newBooking(t, u.ID(), f.ID())))
}

func TestBookingRepository_UpdateStatusGuardsExpectedStatus(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")
	u := testutil.SeedUser(t, db, "r@example.com", auth.RoleResident)

	repo := repository.NewGormBookingRepository(db)
	bk := newBooking(t, u.ID(), f.ID())
	require.NoError(t, repo.Save(ctx, bk))

	stale, err := repo.FindByID(ctx, bk.ID())
	require.NoError(t, err)

	require.NoError(t, bk.Approve())
	bk.IncrementVersion()
	require.NoError(t, repo.UpdateStatus(ctx, bk, bookingDomain.StatusPending))

	require.NoError(t, stale.Decline())
	stale.IncrementVersion()
	err = repo.UpdateStatus(ctx, stale, bookingDomain.StatusPending)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	got, err := repo.FindByID(ctx, bk.ID())
	require.NoError(t, err)
	assert.Equal(t, bookingDomain.StatusApproved, got.Status())
}

func TestBookingRepository_ListAndCount(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f1 := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")
	f2 := testutil.SeedFlat(t, db, tw.ID(), "102", "1600.00")
	u1 := testutil.SeedUser(t, db, "a@example.com", auth.RoleResident)
	u2 := testutil.SeedUser(t, db, "b@example.com", auth.RoleResident)

	repo := repository.NewGormBookingRepository(db)
	require.NoError(t, repo.Save(ctx, newBooking(t, u1.ID(), f1.ID())))
	require.NoError(t, repo.Save(ctx, newBooking(t, u1.ID(), f2.ID())))
	require.NoError(t, repo.Save(ctx, newBooking(t, u2.ID(), f1.ID())))

	uid := u1.ID()
	items, total, err := repo.List(ctx, bookingDomain.ListFilter{UserID: &uid}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 1)

	n, err := repo.CountByFlat(ctx, f1.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	counts, err := repo.CountByStatus(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[bookingDomain.StatusPending])
	assert.Equal(t, int64(0), counts[bookingDomain.StatusApproved])
}

func TestFlatRepository_AvailabilityAndDetailsAreSeparate(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")

	repo := repository.NewGormFlatRepository(db)

	require.NoError(t, f.MarkLeased())
	f.IncrementVersion()
	require.NoError(t, repo.UpdateAvailability(ctx, f))

	// A details edit made from a stale copy must not resurrect availability.
	stale := flatDomain.ReconstructFlat(f.ID(), f.TowerID(), f.Details(), true, 1, f.CreatedAt(), f.UpdatedAt())
	d := stale.Details()
	d.Rent = decimal.RequireFromString("1750.00")
	require.NoError(t, stale.UpdateDetails(d))
	require.NoError(t, repo.UpdateDetails(ctx, stale))

	got, err := repo.FindByID(ctx, f.ID())
	require.NoError(t, err)
	assert.False(t, got.IsAvailable())
	assert.True(t, got.Rent().Equal(decimal.RequireFromString("1750.00")))

	stale.MarkVacant()
	stale.IncrementVersion()
	err = repo.UpdateAvailability(ctx, stale)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestFlatRepository_ListFiltersAndOccupancy(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f1 := testutil.SeedFlat(t, db, tw.ID(), "101", "1200.00")
	testutil.SeedFlat(t, db, tw.ID(), "102", "2200.00")

	repo := repository.NewGormFlatRepository(db)
	require.NoError(t, f1.MarkLeased())
	f1.IncrementVersion()
	require.NoError(t, repo.UpdateAvailability(ctx, f1))

	avail, err := repo.List(ctx, flatDomain.ListFilter{AvailableOnly: true})
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, "102", avail[0].UnitNumber())

	max := decimal.RequireFromString("1500")
	cheap, err := repo.List(ctx, flatDomain.ListFilter{MaxRent: &max})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "101", cheap[0].UnitNumber())

	occ, err := repo.OccupancyByTower(ctx)
	require.NoError(t, err)
	require.Len(t, occ, 1)
	assert.Equal(t, int64(2), occ[0].Total)
	assert.Equal(t, int64(1), occ[0].Occupied)
}

func TestFlatRepository_DuplicateUnit(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	tw := testutil.SeedTower(t, db, "A")
	testutil.SeedFlat(t, db, tw.ID(), "101", "1200.00")

	f, err := flatDomain.NewFlat(tw.ID(), flatDomain.Details{UnitNumber: "101", Rent: decimal.NewFromInt(900)})
	require.NoError(t, err)
	err = repository.NewGormFlatRepository(db).Save(context.Background(), f)
	de := domain.AsError(err)
	require.NotNil(t, de)
	assert.Equal(t, repository.CodeDuplicateUnit, de.Code)
}

func TestLeaseRepository_TenantQueries(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")
	u := testutil.SeedUser(t, db, "r@example.com", auth.RoleResident)

	bk := newBooking(t, u.ID(), f.ID())
	require.NoError(t, repository.NewGormBookingRepository(db).Save(ctx, bk))

	leases := repository.NewGormLeaseRepository(db)
	l, err := leaseDomain.NewLease(bk.ID(), bk.RequestedDate(), f.Rent())
	require.NoError(t, err)
	require.NoError(t, leases.Save(ctx, l))

	byTenant, err := leases.FindByTenant(ctx, u.ID())
	require.NoError(t, err)
	require.Len(t, byTenant, 1)
	assert.Equal(t, l.ID(), byTenant[0].ID())

	n, err := leases.CountActiveByFlat(ctx, f.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rents, err := leases.ActiveRents(ctx)
	require.NoError(t, err)
	require.Len(t, rents, 1)
	assert.True(t, rents[0].Equal(decimal.RequireFromString("1500.00")))

	tenants, err := repository.NewGormUserRepository(db).ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 1)
	assert.Equal(t, u.ID(), tenants[0].ID())

	second, err := leaseDomain.NewLease(bk.ID(), bk.RequestedDate(), f.Rent())
	require.NoError(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(leases.Save(ctx, second)))
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	tw := testutil.SeedTower(t, db, "A")
	f := testutil.SeedFlat(t, db, tw.ID(), "101", "1500.00")

	work := repository.NewGormUnitOfWork(db)
	err := work.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		locked, err := repos.Flats.FindByIDForUpdate(ctx, f.ID())
		if err != nil {
			return err
		}
		if err := locked.MarkLeased(); err != nil {
			return err
		}
		locked.IncrementVersion()
		if err := repos.Flats.UpdateAvailability(ctx, locked); err != nil {
			return err
		}
		return domain.NewStorageError(assert.AnError)
	})
	require.Error(t, err)

	got, err := repository.NewGormFlatRepository(db).FindByID(ctx, f.ID())
	require.NoError(t, err)
	assert.True(t, got.IsAvailable())
	assert.Equal(t, int64(1), got.Version())
}

func TestUserRepository_EmailUnique(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	testutil.SeedUser(t, db, "dup@example.com", auth.RoleResident)

	got, err := repository.NewGormUserRepository(db).FindByEmail(context.Background(), " DUP@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "dup@example.com", got.Email())
}

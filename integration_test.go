//go:build integration

package main_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/events"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/repository"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/testutil"
)

// TestRentalLifecycle runs the booking lifecycle against PostgreSQL, Kafka and Redis.
func TestRentalLifecycle(t *testing.T) {
	infra := setupContainers(t)
	stack := setupRentalStack(t, infra)

	ctx := context.Background()
	admin := testutil.SeedUser(t, infra.DB, "admin@example.com", auth.RoleAdmin)
	adminCaller := application.Caller{UserID: admin.ID(), Role: auth.RoleAdmin}
	tower := testutil.SeedTower(t, infra.DB, "Integration Tower")

	newResident := func(t *testing.T) application.Caller {
		u := testutil.SeedUser(t, infra.DB, uuid.NewString()[:8]+"@example.com", auth.RoleResident)
		return application.Caller{UserID: u.ID(), Role: auth.RoleResident}
	}

	t.Run("approve then terminate publishes events and restores availability", func(t *testing.T) {
		flat := testutil.SeedFlat(t, infra.DB, tower.ID(), "A-101", "1500.00")
		resident := newResident(t)

		bk, err := stack.Service.CreateBooking(ctx, resident, application.CreateBookingRequest{
			FlatID: flat.ID(), RequestedDate: "2025-03-01",
		})
		require.NoError(t, err)

		approved, err := stack.Service.ApproveBooking(ctx, adminCaller, bk.ID)
		require.NoError(t, err)
		require.NotNil(t, approved.Lease)
		assert.True(t, approved.Lease.MonthlyRent.Equal(flat.Rent()))

		ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicRentalEvents,
			events.BookingApproved, bk.ID.String(), 15*time.Second)
		var evt events.BookingApprovedEvent
		require.NoError(t, ce.ParseData(&evt))
		assert.Equal(t, approved.Lease.ID, evt.LeaseID)
		assert.Equal(t, flat.ID(), evt.FlatID)

		_, err = stack.Flats.GetFlat(ctx, resident, flat.ID())
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err), "leased flat is hidden from residents")

		lease, err := stack.Service.TerminateLease(ctx, adminCaller, approved.Lease.ID)
		require.NoError(t, err)
		assert.Equal(t, "terminated", lease.Status)
		require.NotNil(t, lease.EndDate)

		var model repository.FlatModel
		require.NoError(t, infra.DB.Where("id = ?", flat.ID()).First(&model).Error)
		assert.True(t, model.IsAvailable)

		consumeOneEvent(t, infra.KafkaBrokers, events.TopicRentalEvents,
			events.LeaseTerminated, lease.ID.String(), 15*time.Second)
	})

	t.Run("concurrent approvals of one flat yield a single lease", func(t *testing.T) {
		flat := testutil.SeedFlat(t, infra.DB, tower.ID(), "A-102", "1800.00")

		const contenders = 4
		bookingIDs := make([]uuid.UUID, contenders)
		for i := range bookingIDs {
			bk, err := stack.Service.CreateBooking(ctx, newResident(t), application.CreateBookingRequest{
				FlatID: flat.ID(), RequestedDate: "2025-04-01",
			})
			require.NoError(t, err)
			bookingIDs[i] = bk.ID
		}

		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for _, id := range bookingIDs {
			wg.Add(1)
			go func(id uuid.UUID) {
				defer wg.Done()
				_, err := stack.Service.ApproveBooking(ctx, adminCaller, id)
				mu.Lock()
				defer mu.Unlock()
				if err == nil {
					successes++
					return
				}
				if domain.KindOf(err) == domain.KindConflict {
					conflicts++
				}
			}(id)
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, contenders-1, conflicts)

		var leases int64
		require.NoError(t, infra.DB.Model(&repository.LeaseModel{}).
			Joins("JOIN bookings ON bookings.id = leases.booking_id").
			Where("bookings.flat_id = ? AND leases.status = ?", flat.ID(), "active").
			Count(&leases).Error)
		assert.Equal(t, int64(1), leases)
	})

	t.Run("double approval of one booking succeeds once", func(t *testing.T) {
		flat := testutil.SeedFlat(t, infra.DB, tower.ID(), "A-103", "1900.00")
		bk, err := stack.Service.CreateBooking(ctx, newResident(t), application.CreateBookingRequest{
			FlatID: flat.ID(), RequestedDate: "2025-05-01",
		})
		require.NoError(t, err)

		errs := make(chan error, 2)
		for range 2 {
			go func() {
				_, err := stack.Service.ApproveBooking(ctx, adminCaller, bk.ID)
				errs <- err
			}()
		}
		first, second := <-errs, <-errs

		failures := 0
		for _, err := range []error{first, second} {
			if err != nil {
				failures++
				assert.Equal(t, domain.KindInvalidTransition, domain.KindOf(err))
			}
		}
		assert.Equal(t, 1, failures)
	})

	t.Run("second pending request for the same flat is rejected", func(t *testing.T) {
		flat := testutil.SeedFlat(t, infra.DB, tower.ID(), "A-104", "1200.00")
		resident := newResident(t)

		_, err := stack.Service.CreateBooking(ctx, resident, application.CreateBookingRequest{
			FlatID: flat.ID(), RequestedDate: "2025-06-01",
		})
		require.NoError(t, err)

		_, err = stack.Service.CreateBooking(ctx, resident, application.CreateBookingRequest{
			FlatID: flat.ID(), RequestedDate: "2025-06-02",
		})
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.CodeDuplicatePending, de.Code)
	})

	t.Run("lease ended contract event terminates the lease", func(t *testing.T) {
		flat := testutil.SeedFlat(t, infra.DB, tower.ID(), "A-105", "2100.00")
		bk, err := stack.Service.CreateBooking(ctx, newResident(t), application.CreateBookingRequest{
			FlatID: flat.ID(), RequestedDate: "2025-07-01",
		})
		require.NoError(t, err)
		approved, err := stack.Service.ApproveBooking(ctx, adminCaller, bk.ID)
		require.NoError(t, err)

		consumerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() { _ = stack.Consumer.Start(consumerCtx) }()
		time.Sleep(3 * time.Second) // Wait for consumer group join.

		publishTestEvent(t, infra.KafkaBrokers, events.TopicContractEvents,
			"contract-service", events.ContractLeaseEnded, events.LeaseEndedEvent{
				LeaseID:    approved.Lease.ID,
				Reason:     "term expired",
				OccurredAt: time.Now().UTC(),
			})

		model := waitForLeaseStatus(t, infra.DB, approved.Lease.ID, "terminated", 15*time.Second)
		assert.NotNil(t, model.EndDate)
	})

	t.Run("flat cache is invalidated when availability changes", func(t *testing.T) {
		require.NoError(t, infra.Redis.FlushDB(ctx).Err())
		flat := testutil.SeedFlat(t, infra.DB, tower.ID(), "A-106", "1300.00")

		cached, _, ok := stack.Cache.GetFlats(ctx, "all")
		assert.False(t, ok)
		assert.Nil(t, cached)

		before, err := stack.Flats.ListFlats(ctx, application.Caller{}, application.FlatQuery{})
		require.NoError(t, err)
		cached, _, ok = stack.Cache.GetFlats(ctx, "all")
		require.True(t, ok)
		assert.Len(t, cached, len(before))

		bk, err := stack.Service.CreateBooking(ctx, newResident(t), application.CreateBookingRequest{
			FlatID: flat.ID(), RequestedDate: "2025-08-01",
		})
		require.NoError(t, err)
		_, err = stack.Service.ApproveBooking(ctx, adminCaller, bk.ID)
		require.NoError(t, err)

		_, _, ok = stack.Cache.GetFlats(ctx, "all")
		assert.False(t, ok, "approval drops cached listings")

		after, err := stack.Flats.ListFlats(ctx, application.Caller{}, application.FlatQuery{})
		require.NoError(t, err)
		assert.Len(t, after, len(before)-1)
	})

	t.Run("listing stored after an invalidation stays invisible", func(t *testing.T) {
		require.NoError(t, infra.Redis.FlushDB(ctx).Err())
		stale := []application.FlatDTO{{ID: uuid.New(), UnitNumber: "STALE"}}

		_, gen, ok := stack.Cache.GetFlats(ctx, "bedrooms=1")
		require.False(t, ok)

		stack.Cache.InvalidateFlats(ctx)
		stack.Cache.SetFlats(ctx, "bedrooms=1", gen, stale)

		_, current, ok := stack.Cache.GetFlats(ctx, "bedrooms=1")
		assert.False(t, ok)
		assert.Equal(t, gen+1, current)
	})
}

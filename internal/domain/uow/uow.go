package uow

import (
	"context"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/booking"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/lease"
)

// Repositories are the repositories bound to one transaction.
type Repositories struct {
	Bookings booking.BookingRepository
	Leases   lease.LeaseRepository
	Flats    flat.FlatRepository
}

// UnitOfWork runs fn inside a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}

package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a booking listing. Zero values mean "any".
type ListFilter struct {
	UserID *uuid.UUID
	FlatID *uuid.UUID
	Status BookingStatus
}

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByIDForUpdate retrieves a booking and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ExistsPending reports whether the user already has a pending booking for the flat.
	ExistsPending(ctx context.Context, userID, flatID uuid.UUID) (bool, error)

	// List retrieves bookings matching filter, newest first, with pagination.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Booking, int64, error)

	// CountByFlat returns how many bookings reference a flat.
	CountByFlat(ctx context.Context, flatID uuid.UUID) (int64, error)

	// CountByStatus returns booking counts grouped by status, optionally since a point in time.
	CountByStatus(ctx context.Context, since *time.Time) (map[BookingStatus]int64, error)

	// Save persists a new booking.
	Save(ctx context.Context, booking *Booking) error

	// UpdateStatus persists a status change only if the stored row still has expectedStatus
	// and the booking's previous version.
	UpdateStatus(ctx context.Context, booking *Booking, expectedStatus BookingStatus) error
}

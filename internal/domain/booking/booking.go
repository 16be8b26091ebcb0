package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// Booking is the aggregate root for a resident's request to rent a flat.
type Booking struct {
	id            uuid.UUID
	userID        uuid.UUID
	flatID        uuid.UUID
	requestedDate time.Time
	status        BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(userID, flatID uuid.UUID, requestedDate time.Time) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if flatID == uuid.Nil {
		return nil, domain.NewValidationError("flat ID is required")
	}
	if requestedDate.IsZero() {
		return nil, domain.NewInvalidInputError(domain.CodeBadDateFormat, "requested_date is required")
	}

	now := time.Now().UTC()
	return &Booking{
		id:            uuid.New(),
		userID:        userID,
		flatID:        flatID,
		requestedDate: requestedDate,
		status:        StatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id, userID, flatID uuid.UUID,
	requestedDate time.Time,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		userID:        userID,
		flatID:        flatID,
		requestedDate: requestedDate,
		status:        status,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// UserID returns the requesting resident's ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// FlatID returns the requested flat's ID.
func (b *Booking) FlatID() uuid.UUID { return b.flatID }

// RequestedDate returns the requested move-in date.
func (b *Booking) RequestedDate() time.Time { return b.requestedDate }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the optimistic locking version.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns when the booking was requested.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns when the booking last changed.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// IsOwnedBy reports whether the booking was requested by userID.
func (b *Booking) IsOwnedBy(userID uuid.UUID) bool { return b.userID == userID }

// --- State transitions ---

// Approve moves a pending booking to approved.
func (b *Booking) Approve() error {
	return b.transitionTo(StatusApproved)
}

// Decline moves a pending booking to declined.
func (b *Booking) Decline() error {
	return b.transitionTo(StatusDeclined)
}

func (b *Booking) transitionTo(target BookingStatus) error {
	if !b.status.CanTransitionTo(target) {
		return NotPendingError(b.status)
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version after a mutation.
func (b *Booking) IncrementVersion() {
	b.version++
}

// NotPendingError is returned when a decision is made on a booking that is no longer pending.
func NotPendingError(current BookingStatus) *domain.Error {
	return domain.NewInvalidTransitionError(domain.CodeNotPending,
		"booking is not pending", current.String())
}

// DuplicatePendingError is returned when the user already has a pending booking for the flat.
func DuplicatePendingError() *domain.Error {
	return domain.NewConflictError(domain.CodeDuplicatePending,
		"you already have a pending booking for this flat")
}

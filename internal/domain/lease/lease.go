package lease

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// Lease records the occupancy that results from an approved booking.
type Lease struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	startDate   time.Time
	endDate     *time.Time
	monthlyRent decimal.Decimal
	status      LeaseStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewLease creates an active lease for an approved booking.
// monthlyRent is a snapshot of the flat's rent at approval time.
func NewLease(bookingID uuid.UUID, startDate time.Time, monthlyRent decimal.Decimal) (*Lease, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if monthlyRent.IsNegative() {
		return nil, domain.NewValidationError("monthly rent must not be negative")
	}

	now := time.Now().UTC()
	return &Lease{
		id:          uuid.New(),
		bookingID:   bookingID,
		startDate:   startDate,
		monthlyRent: monthlyRent,
		status:      StatusActive,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructLease rebuilds a Lease from persistence data (no validation).
func ReconstructLease(
	id, bookingID uuid.UUID,
	startDate time.Time,
	endDate *time.Time,
	monthlyRent decimal.Decimal,
	status LeaseStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Lease {
	return &Lease{
		id:          id,
		bookingID:   bookingID,
		startDate:   startDate,
		endDate:     endDate,
		monthlyRent: monthlyRent,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the lease's unique identifier.
func (l *Lease) ID() uuid.UUID { return l.id }

// BookingID returns the approved booking this lease came from.
func (l *Lease) BookingID() uuid.UUID { return l.bookingID }

// StartDate returns the move-in date.
func (l *Lease) StartDate() time.Time { return l.startDate }

// EndDate returns the termination date, or nil while active.
func (l *Lease) EndDate() *time.Time { return l.endDate }

// MonthlyRent returns the rent agreed at approval.
func (l *Lease) MonthlyRent() decimal.Decimal { return l.monthlyRent }

// Status returns the lease status.
func (l *Lease) Status() LeaseStatus { return l.status }

// Version returns the optimistic locking version.
func (l *Lease) Version() int64 { return l.version }

// CreatedAt returns when the lease was created.
func (l *Lease) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns when the lease last changed.
func (l *Lease) UpdatedAt() time.Time { return l.updatedAt }

// IsActive reports whether the lease currently occupies its flat.
func (l *Lease) IsActive() bool { return l.status == StatusActive }

// Terminate ends an active lease, stamping today's date as its end date.
func (l *Lease) Terminate(now time.Time) error {
	if !l.status.CanTransitionTo(StatusTerminated) {
		return NotActiveError(l.status)
	}
	now = now.UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	l.status = StatusTerminated
	l.endDate = &end
	l.updatedAt = now
	return nil
}

// IncrementVersion bumps the version after a mutation.
func (l *Lease) IncrementVersion() {
	l.version++
}

// NotActiveError is returned when terminating a lease that is no longer active.
func NotActiveError(current LeaseStatus) *domain.Error {
	return domain.NewInvalidTransitionError(domain.CodeLeaseNotActive,
		"lease is not active", current.String())
}

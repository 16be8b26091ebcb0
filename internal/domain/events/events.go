package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Topics.
const (
	TopicRentalEvents   = "rental.events"
	TopicContractEvents = "contract.events"
)

// Event types published on TopicRentalEvents.
const (
	BookingRequested = "rental.booking.requested"
	BookingApproved  = "rental.booking.approved"
	BookingDeclined  = "rental.booking.declined"
	LeaseTerminated  = "rental.lease.terminated"
)

// Event types consumed from TopicContractEvents.
const (
	ContractLeaseEnded = "contract.lease_ended"
)

// BookingRequestedEvent is emitted when a resident requests a flat.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	UserID        uuid.UUID `json:"user_id"`
	FlatID        uuid.UUID `json:"flat_id"`
	RequestedDate string    `json:"requested_date"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingApprovedEvent is emitted when an approval commits together with its lease.
type BookingApprovedEvent struct {
	BookingID   uuid.UUID       `json:"booking_id"`
	LeaseID     uuid.UUID       `json:"lease_id"`
	UserID      uuid.UUID       `json:"user_id"`
	FlatID      uuid.UUID       `json:"flat_id"`
	StartDate   string          `json:"start_date"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	ApprovedBy  uuid.UUID       `json:"approved_by"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// BookingDeclinedEvent is emitted when a pending booking is declined.
type BookingDeclinedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     uuid.UUID `json:"user_id"`
	FlatID     uuid.UUID `json:"flat_id"`
	DeclinedBy uuid.UUID `json:"declined_by"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LeaseTerminatedEvent is emitted when a lease ends and its flat is vacant again.
type LeaseTerminatedEvent struct {
	LeaseID      uuid.UUID `json:"lease_id"`
	BookingID    uuid.UUID `json:"booking_id"`
	FlatID       uuid.UUID `json:"flat_id"`
	EndDate      string    `json:"end_date"`
	TerminatedBy uuid.UUID `json:"terminated_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// LeaseEndedEvent is published by the contract system when a rental agreement ends.
type LeaseEndedEvent struct {
	LeaseID    uuid.UUID `json:"lease_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

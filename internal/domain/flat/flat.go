package flat

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// Details are the physical attributes and rent of a flat, editable by administrators.
type Details struct {
	UnitNumber string
	Floor      int
	Bedrooms   int
	Bathrooms  int
	AreaSqft   *int
	Rent       decimal.Decimal
}

func (d Details) validate() error {
	if strings.TrimSpace(d.UnitNumber) == "" {
		return domain.NewValidationError("unit number is required")
	}
	if len(d.UnitNumber) > 20 {
		return domain.NewValidationError("unit number must be at most 20 characters")
	}
	if d.Floor < 0 {
		return domain.NewValidationError("floor must not be negative")
	}
	if d.Bedrooms < 0 || d.Bathrooms < 0 {
		return domain.NewValidationError("bedroom and bathroom counts must not be negative")
	}
	if d.AreaSqft != nil && *d.AreaSqft <= 0 {
		return domain.NewValidationError("area must be positive")
	}
	if !d.Rent.IsPositive() {
		return domain.NewValidationError("rent must be positive")
	}
	return nil
}

// Flat is a rentable unit in a tower.
// Availability changes only through MarkLeased and MarkVacant.
type Flat struct {
	id        uuid.UUID
	towerID   uuid.UUID
	details   Details
	available bool

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewFlat creates an available flat in a tower.
func NewFlat(towerID uuid.UUID, details Details) (*Flat, error) {
	if towerID == uuid.Nil {
		return nil, domain.NewValidationError("tower ID is required")
	}
	details.UnitNumber = strings.TrimSpace(details.UnitNumber)
	if err := details.validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Flat{
		id:        uuid.New(),
		towerID:   towerID,
		details:   details,
		available: true,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructFlat rebuilds a Flat from persistence data (no validation).
func ReconstructFlat(
	id, towerID uuid.UUID,
	details Details,
	available bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Flat {
	return &Flat{
		id:        id,
		towerID:   towerID,
		details:   details,
		available: available,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the flat's unique identifier.
func (f *Flat) ID() uuid.UUID { return f.id }

// TowerID returns the tower the flat belongs to.
func (f *Flat) TowerID() uuid.UUID { return f.towerID }

func (f *Flat) Details() Details { return f.details }

func (f *Flat) UnitNumber() string { return f.details.UnitNumber }

// Rent returns the current monthly rent.
func (f *Flat) Rent() decimal.Decimal { return f.details.Rent }

// IsAvailable reports whether the flat can be booked.
func (f *Flat) IsAvailable() bool { return f.available }

func (f *Flat) Version() int64 { return f.version }

func (f *Flat) CreatedAt() time.Time { return f.createdAt }

func (f *Flat) UpdatedAt() time.Time { return f.updatedAt }

// UpdateDetails replaces the editable attributes. Availability is untouched.
func (f *Flat) UpdateDetails(details Details) error {
	details.UnitNumber = strings.TrimSpace(details.UnitNumber)
	if err := details.validate(); err != nil {
		return err
	}
	f.details = details
	f.updatedAt = time.Now().UTC()
	return nil
}

// MarkLeased takes the flat off the market. Fails if it is already leased.
func (f *Flat) MarkLeased() error {
	if !f.available {
		return UnavailableError()
	}
	f.available = false
	f.updatedAt = time.Now().UTC()
	return nil
}

// MarkVacant returns the flat to the market.
func (f *Flat) MarkVacant() {
	f.available = true
	f.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version after a mutation.
func (f *Flat) IncrementVersion() {
	f.version++
}

// UnavailableError is returned when a flat is already occupied.
func UnavailableError() *domain.Error {
	return domain.NewConflictError(domain.CodeFlatUnavailable, "flat is not available")
}

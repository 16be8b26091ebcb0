package flat

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilter narrows a flat listing. Nil fields mean "any".
type ListFilter struct {
	TowerID       *uuid.UUID
	Bedrooms      *int
	MinRent       *decimal.Decimal
	MaxRent       *decimal.Decimal
	AvailableOnly bool
}

// TowerOccupancy is a per-tower count of flats by availability.
type TowerOccupancy struct {
	TowerID  uuid.UUID
	Total    int64
	Occupied int64
}

// FlatRepository defines the persistence contract for flats.
type FlatRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Flat, error)

	// FindByIDForUpdate retrieves a flat and locks its row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Flat, error)

	List(ctx context.Context, filter ListFilter) ([]*Flat, error)

	CountByTower(ctx context.Context, towerID uuid.UUID) (int64, error)

	OccupancyByTower(ctx context.Context) ([]TowerOccupancy, error)

	Save(ctx context.Context, flat *Flat) error

	// UpdateDetails persists editable attributes. It never writes availability.
	UpdateDetails(ctx context.Context, flat *Flat) error

	// UpdateAvailability persists the availability flag with optimistic locking.
	// Only the booking lifecycle may call it.
	UpdateAvailability(ctx context.Context, flat *Flat) error

	Delete(ctx context.Context, id uuid.UUID) error
}

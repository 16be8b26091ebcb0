package tower

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// DefaultFlatsPerFloor applies when a tower is created without an explicit layout.
const DefaultFlatsPerFloor = 4

// Tower is a residential building containing flats.
type Tower struct {
	id            uuid.UUID
	name          string
	address       string
	totalFloors   int
	flatsPerFloor int
	amenityIDs    []uuid.UUID
	createdAt     time.Time
	updatedAt     time.Time
}

// NewTower creates a tower.
func NewTower(name, address string, totalFloors, flatsPerFloor int, amenityIDs []uuid.UUID) (*Tower, error) {
	if flatsPerFloor == 0 {
		flatsPerFloor = DefaultFlatsPerFloor
	}
	t := &Tower{id: uuid.New(), createdAt: time.Now().UTC()}
	t.updatedAt = t.createdAt
	if err := t.Update(name, address, totalFloors, flatsPerFloor); err != nil {
		return nil, err
	}
	t.amenityIDs = amenityIDs
	return t, nil
}

// ReconstructTower rebuilds a Tower from persistence data.
func ReconstructTower(id uuid.UUID, name, address string, totalFloors, flatsPerFloor int,
	amenityIDs []uuid.UUID, createdAt, updatedAt time.Time) *Tower {
	return &Tower{
		id:            id,
		name:          name,
		address:       address,
		totalFloors:   totalFloors,
		flatsPerFloor: flatsPerFloor,
		amenityIDs:    amenityIDs,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (t *Tower) ID() uuid.UUID { return t.id }
func (t *Tower) Name() string { return t.name }
func (t *Tower) Address() string { return t.address }
func (t *Tower) TotalFloors() int { return t.totalFloors }
func (t *Tower) FlatsPerFloor() int { return t.flatsPerFloor }
func (t *Tower) AmenityIDs() []uuid.UUID { return t.amenityIDs }
func (t *Tower) CreatedAt() time.Time { return t.createdAt }
func (t *Tower) UpdatedAt() time.Time { return t.updatedAt }

// Update validates and replaces the tower's attributes.
func (t *Tower) Update(name, address string, totalFloors, flatsPerFloor int) error {
	name = strings.TrimSpace(name)
	address = strings.TrimSpace(address)
	if name == "" {
		return domain.NewValidationError("tower name is required")
	}
	if address == "" {
		return domain.NewValidationError("tower address is required")
	}
	if totalFloors < 1 {
		return domain.NewValidationError("total floors must be at least 1")
	}
	if flatsPerFloor < 1 {
		return domain.NewValidationError("flats per floor must be at least 1")
	}
	t.name = name
	t.address = address
	t.totalFloors = totalFloors
	t.flatsPerFloor = flatsPerFloor
	t.updatedAt = time.Now().UTC()
	return nil
}

// SetAmenities replaces the set of amenities available in the tower.
func (t *Tower) SetAmenities(ids []uuid.UUID) {
	t.amenityIDs = ids
	t.updatedAt = time.Now().UTC()
}

// TowerRepository defines the persistence contract for towers.
type TowerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tower, error)
	List(ctx context.Context) ([]*Tower, error)
	Save(ctx context.Context, tower *Tower) error
	Update(ctx context.Context, tower *Tower) error
	Delete(ctx context.Context, id uuid.UUID) error
}

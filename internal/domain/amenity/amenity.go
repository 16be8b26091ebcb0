package amenity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// Type categorizes a shared facility.
type Type string

const (
	TypeGym     Type = "gym"
	TypePool    Type = "pool"
	TypeParking Type = "parking"
	TypeCommon  Type = "common"
)

// IsValid reports whether t is a known amenity type.
func (t Type) IsValid() bool {
	switch t {
	case TypeGym, TypePool, TypeParking, TypeCommon:
		return true
	}
	return false
}

// Attributes are the editable fields of an amenity.
type Attributes struct {
	Name        string
	Type        Type
	Description string
	Hours       string
	Fee         *decimal.Decimal
}

func (a *Attributes) normalize() error {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return domain.NewValidationError("amenity name is required")
	}
	if !a.Type.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid amenity type %q: must be one of gym, pool, parking, common", a.Type))
	}
	if a.Fee != nil && a.Fee.IsNegative() {
		return domain.NewValidationError("fee must not be negative")
	}
	return nil
}

// Amenity is a shared facility offered by one or more towers.
type Amenity struct {
	id        uuid.UUID
	attrs     Attributes
	createdAt time.Time
	updatedAt time.Time
}

// NewAmenity creates an amenity.
func NewAmenity(attrs Attributes) (*Amenity, error) {
	if err := attrs.normalize(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Amenity{id: uuid.New(), attrs: attrs, createdAt: now, updatedAt: now}, nil
}

// ReconstructAmenity rebuilds an Amenity from persistence data.
func ReconstructAmenity(id uuid.UUID, attrs Attributes, createdAt, updatedAt time.Time) *Amenity {
	return &Amenity{id: id, attrs: attrs, createdAt: createdAt, updatedAt: updatedAt}
}

func (a *Amenity) ID() uuid.UUID { return a.id }
func (a *Amenity) Attributes() Attributes { return a.attrs }
func (a *Amenity) CreatedAt() time.Time { return a.createdAt }
func (a *Amenity) UpdatedAt() time.Time { return a.updatedAt }

// Update replaces the amenity's attributes.
func (a *Amenity) Update(attrs Attributes) error {
	if err := attrs.normalize(); err != nil {
		return err
	}
	a.attrs = attrs
	a.updatedAt = time.Now().UTC()
	return nil
}

// AmenityRepository defines the persistence contract for amenities.
type AmenityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Amenity, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Amenity, error)
	List(ctx context.Context, t Type) ([]*Amenity, error)
	Save(ctx context.Context, amenity *Amenity) error
	Update(ctx context.Context, amenity *Amenity) error
	Delete(ctx context.Context, id uuid.UUID) error
}

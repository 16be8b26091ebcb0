package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	amenityDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/amenity"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// AmenityModel is the GORM model for the amenities table.
type AmenityModel struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name        string           `gorm:"not null;size:100"`
	Type        string           `gorm:"not null;size:20;index"`
	Description string           `gorm:"type:text"`
	Hours       string           `gorm:"size:100"`
	Fee         *decimal.Decimal `gorm:"type:numeric(10,2)"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time        `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AmenityModel) TableName() string {
	return "amenities"
}

// GormAmenityRepository is the GORM-based implementation of AmenityRepository.
type GormAmenityRepository struct {
	db *gorm.DB
}

// NewGormAmenityRepository creates a new GormAmenityRepository.
func NewGormAmenityRepository(db *gorm.DB) *GormAmenityRepository {
	return &GormAmenityRepository{db: db}
}

func (r *GormAmenityRepository) FindByID(ctx context.Context, id uuid.UUID) (*amenityDomain.Amenity, error) {
	var model AmenityModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("amenity", id.String())
		}
		return nil, fmt.Errorf("failed to find amenity by ID: %w", err)
	}
	return toDomainAmenity(&model), nil
}

// FindByIDs returns the amenities among ids that exist, ordered by name.
func (r *GormAmenityRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*amenityDomain.Amenity, error) {
	if len(ids) == 0 {
		return []*amenityDomain.Amenity{}, nil
	}
	var models []AmenityModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find amenities: %w", err)
	}
	return toDomainAmenities(models), nil
}

// List returns amenities, optionally only those of type t.
func (r *GormAmenityRepository) List(ctx context.Context, t amenityDomain.Type) ([]*amenityDomain.Amenity, error) {
	query := r.db.WithContext(ctx).Model(&AmenityModel{})
	if t != "" {
		query = query.Where("type = ?", string(t))
	}
	var models []AmenityModel
	if err := query.Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list amenities: %w", err)
	}
	return toDomainAmenities(models), nil
}

func (r *GormAmenityRepository) Save(ctx context.Context, a *amenityDomain.Amenity) error {
	if err := r.db.WithContext(ctx).Create(toAmenityModel(a)).Error; err != nil {
		return fmt.Errorf("failed to save amenity: %w", err)
	}
	return nil
}

func (r *GormAmenityRepository) Update(ctx context.Context, a *amenityDomain.Amenity) error {
	attrs := a.Attributes()
	result := r.db.WithContext(ctx).
		Model(&AmenityModel{}).
		Where("id = ?", a.ID()).
		Updates(map[string]interface{}{
			"name":        attrs.Name,
			"type":        string(attrs.Type),
			"description": attrs.Description,
			"hours":       attrs.Hours,
			"fee":         attrs.Fee,
			"updated_at":  a.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update amenity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("amenity", a.ID().String())
	}
	return nil
}

// Delete removes an amenity and detaches it from every tower.
func (r *GormAmenityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("amenity_id = ?", id).Delete(&TowerAmenityModel{}).Error; err != nil {
			return fmt.Errorf("failed to detach amenity: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&AmenityModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete amenity: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("amenity", id.String())
		}
		return nil
	})
}

// --- Conversion Helpers ---

func toAmenityModel(a *amenityDomain.Amenity) *AmenityModel {
	attrs := a.Attributes()
	return &AmenityModel{
		ID:          a.ID(),
		Name:        attrs.Name,
		Type:        string(attrs.Type),
		Description: attrs.Description,
		Hours:       attrs.Hours,
		Fee:         attrs.Fee,
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

func toDomainAmenity(m *AmenityModel) *amenityDomain.Amenity {
	return amenityDomain.ReconstructAmenity(m.ID, amenityDomain.Attributes{
		Name:        m.Name,
		Type:        amenityDomain.Type(m.Type),
		Description: m.Description,
		Hours:       m.Hours,
		Fee:         m.Fee,
	}, m.CreatedAt, m.UpdatedAt)
}

func toDomainAmenities(models []AmenityModel) []*amenityDomain.Amenity {
	out := make([]*amenityDomain.Amenity, len(models))
	for i := range models {
		out[i] = toDomainAmenity(&models[i])
	}
	return out
}

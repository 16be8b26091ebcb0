package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// CodeDuplicateUnit is returned when a tower already has a flat with the same unit number.
const CodeDuplicateUnit = "DUPLICATE_UNIT"

// FlatModel is the GORM model for the flats table.
type FlatModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TowerID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_flats_tower_unit"`
	UnitNumber  string          `gorm:"not null;size:20;uniqueIndex:idx_flats_tower_unit"`
	Floor       int             `gorm:"not null"`
	Bedrooms    int             `gorm:"not null;index"`
	Bathrooms   int             `gorm:"not null"`
	AreaSqft    *int
	Rent        decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	IsAvailable bool            `gorm:"not null;index"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (FlatModel) TableName() string {
	return "flats"
}

// GormFlatRepository is the GORM-based implementation of FlatRepository.
type GormFlatRepository struct {
	db *gorm.DB
}

// NewGormFlatRepository creates a new GormFlatRepository.
func NewGormFlatRepository(db *gorm.DB) *GormFlatRepository {
	return &GormFlatRepository{db: db}
}

// FindByID retrieves a flat by its unique identifier.
func (r *GormFlatRepository) FindByID(ctx context.Context, id uuid.UUID) (*flatDomain.Flat, error) {
	return r.find(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a flat with a row lock.
func (r *GormFlatRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*flatDomain.Flat, error) {
	return r.find(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormFlatRepository) find(db *gorm.DB, id uuid.UUID) (*flatDomain.Flat, error) {
	var model FlatModel
	if err := db.Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("flat", id.String())
		}
		return nil, fmt.Errorf("failed to find flat by ID: %w", err)
	}
	return toDomainFlat(&model), nil
}

// List returns flats matching filter ordered by tower, floor and unit.
func (r *GormFlatRepository) List(ctx context.Context, filter flatDomain.ListFilter) ([]*flatDomain.Flat, error) {
	query := r.db.WithContext(ctx).Model(&FlatModel{})
	if filter.TowerID != nil {
		query = query.Where("tower_id = ?", *filter.TowerID)
	}
	if filter.Bedrooms != nil {
		query = query.Where("bedrooms = ?", *filter.Bedrooms)
	}
	if filter.MinRent != nil {
		query = query.Where("rent >= ?", *filter.MinRent)
	}
	if filter.MaxRent != nil {
		query = query.Where("rent <= ?", *filter.MaxRent)
	}
	if filter.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var models []FlatModel
	if err := query.Order("tower_id, floor, unit_number").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list flats: %w", err)
	}

	flats := make([]*flatDomain.Flat, len(models))
	for i := range models {
		flats[i] = toDomainFlat(&models[i])
	}
	return flats, nil
}

// CountByTower returns how many flats belong to towerID.
func (r *GormFlatRepository) CountByTower(ctx context.Context, towerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&FlatModel{}).Where("tower_id = ?", towerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tower flats: %w", err)
	}
	return count, nil
}

// OccupancyByTower returns total and occupied flat counts for every tower that has flats.
func (r *GormFlatRepository) OccupancyByTower(ctx context.Context) ([]flatDomain.TowerOccupancy, error) {
	type row struct {
		TowerID  uuid.UUID
		Total    int64
		Occupied int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&FlatModel{}).
		Select("tower_id, count(*) AS total, sum(CASE WHEN is_available THEN 0 ELSE 1 END) AS occupied").
		Group("tower_id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to compute occupancy: %w", err)
	}

	result := make([]flatDomain.TowerOccupancy, len(rows))
	for i, rw := range rows {
		result[i] = flatDomain.TowerOccupancy{TowerID: rw.TowerID, Total: rw.Total, Occupied: rw.Occupied}
	}
	return result, nil
}

// Save persists a new flat.
func (r *GormFlatRepository) Save(ctx context.Context, f *flatDomain.Flat) error {
	if err := r.db.WithContext(ctx).Create(toFlatModel(f)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(CodeDuplicateUnit, "unit number already exists in this tower")
		}
		return fmt.Errorf("failed to save flat: %w", err)
	}
	return nil
}

// UpdateDetails writes the editable columns. is_available and version are left alone.
func (r *GormFlatRepository) UpdateDetails(ctx context.Context, f *flatDomain.Flat) error {
	d := f.Details()
	result := r.db.WithContext(ctx).
		Model(&FlatModel{}).
		Where("id = ?", f.ID()).
		Updates(map[string]interface{}{
			"unit_number": d.UnitNumber,
			"floor":       d.Floor,
			"bedrooms":    d.Bedrooms,
			"bathrooms":   d.Bathrooms,
			"area_sqft":   d.AreaSqft,
			"rent":        d.Rent,
			"updated_at":  f.UpdatedAt(),
		})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(CodeDuplicateUnit, "unit number already exists in this tower")
		}
		return fmt.Errorf("failed to update flat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("flat", f.ID().String())
	}
	return nil
}

// UpdateAvailability writes the availability flag guarded by the flat's previous version.
func (r *GormFlatRepository) UpdateAvailability(ctx context.Context, f *flatDomain.Flat) error {
	expectedVersion := f.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&FlatModel{}).
		Where("id = ? AND version = ?", f.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"is_available": f.IsAvailable(),
			"version":      f.Version(),
			"updated_at":   f.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update flat availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(domain.CodeConcurrentUpdate, "flat was modified by another transaction")
	}
	return nil
}

// Delete removes a flat.
func (r *GormFlatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&FlatModel{})
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return domain.NewConflictError(domain.CodeConstraint, "flat is referenced by bookings")
		}
		return fmt.Errorf("failed to delete flat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("flat", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toFlatModel(f *flatDomain.Flat) *FlatModel {
	d := f.Details()
	return &FlatModel{
		ID:          f.ID(),
		TowerID:     f.TowerID(),
		UnitNumber:  d.UnitNumber,
		Floor:       d.Floor,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		AreaSqft:    d.AreaSqft,
		Rent:        d.Rent,
		IsAvailable: f.IsAvailable(),
		Version:     f.Version(),
		CreatedAt:   f.CreatedAt(),
		UpdatedAt:   f.UpdatedAt(),
	}
}

func toDomainFlat(m *FlatModel) *flatDomain.Flat {
	return flatDomain.ReconstructFlat(
		m.ID,
		m.TowerID,
		flatDomain.Details{
			UnitNumber: m.UnitNumber,
			Floor:      m.Floor,
			Bedrooms:   m.Bedrooms,
			Bathrooms:  m.Bathrooms,
			AreaSqft:   m.AreaSqft,
			Rent:       m.Rent,
		},
		m.IsAvailable,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	towerDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/tower"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// TowerModel is the GORM model for the towers table.
type TowerModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"not null;size:100"`
	Address       string    `gorm:"not null"`
	TotalFloors   int       `gorm:"not null"`
	FlatsPerFloor int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TowerModel) TableName() string {
	return "towers"
}

// TowerAmenityModel links a tower to an amenity it offers.
type TowerAmenityModel struct {
	TowerID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	AmenityID uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for the GORM model.
func (TowerAmenityModel) TableName() string {
	return "tower_amenities"
}

// GormTowerRepository is the GORM-based implementation of TowerRepository.
type GormTowerRepository struct {
	db *gorm.DB
}

// NewGormTowerRepository creates a new GormTowerRepository.
func NewGormTowerRepository(db *gorm.DB) *GormTowerRepository {
	return &GormTowerRepository{db: db}
}

// FindByID retrieves a tower and its amenity links.
func (r *GormTowerRepository) FindByID(ctx context.Context, id uuid.UUID) (*towerDomain.Tower, error) {
	var model TowerModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("tower", id.String())
		}
		return nil, fmt.Errorf("failed to find tower by ID: %w", err)
	}

	links, err := r.amenityLinks(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return toDomainTower(&model, links[id]), nil
}

// List returns every tower ordered by name.
func (r *GormTowerRepository) List(ctx context.Context) ([]*towerDomain.Tower, error) {
	var models []TowerModel
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list towers: %w", err)
	}

	ids := make([]uuid.UUID, len(models))
	for i := range models {
		ids[i] = models[i].ID
	}
	links, err := r.amenityLinks(ctx, ids)
	if err != nil {
		return nil, err
	}

	towers := make([]*towerDomain.Tower, len(models))
	for i := range models {
		towers[i] = toDomainTower(&models[i], links[models[i].ID])
	}
	return towers, nil
}

func (r *GormTowerRepository) amenityLinks(ctx context.Context, towerIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	links := make(map[uuid.UUID][]uuid.UUID, len(towerIDs))
	if len(towerIDs) == 0 {
		return links, nil
	}
	var rows []TowerAmenityModel
	if err := r.db.WithContext(ctx).Where("tower_id IN ?", towerIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load tower amenities: %w", err)
	}
	for _, row := range rows {
		links[row.TowerID] = append(links[row.TowerID], row.AmenityID)
	}
	return links, nil
}

// Save persists a new tower with its amenity links.
func (r *GormTowerRepository) Save(ctx context.Context, t *towerDomain.Tower) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toTowerModel(t)).Error; err != nil {
			return fmt.Errorf("failed to save tower: %w", err)
		}
		return replaceAmenityLinks(tx, t)
	})
}

// Update writes the tower's attributes and replaces its amenity links.
func (r *GormTowerRepository) Update(ctx context.Context, t *towerDomain.Tower) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&TowerModel{}).
			Where("id = ?", t.ID()).
			Updates(map[string]interface{}{
				"name":            t.Name(),
				"address":         t.Address(),
				"total_floors":    t.TotalFloors(),
				"flats_per_floor": t.FlatsPerFloor(),
				"updated_at":      t.UpdatedAt(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update tower: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("tower", t.ID().String())
		}
		return replaceAmenityLinks(tx, t)
	})
}

func replaceAmenityLinks(tx *gorm.DB, t *towerDomain.Tower) error {
	if err := tx.Where("tower_id = ?", t.ID()).Delete(&TowerAmenityModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear tower amenities: %w", err)
	}
	if len(t.AmenityIDs()) == 0 {
		return nil
	}
	rows := make([]TowerAmenityModel, len(t.AmenityIDs()))
	for i, id := range t.AmenityIDs() {
		rows[i] = TowerAmenityModel{TowerID: t.ID(), AmenityID: id}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to link tower amenities: %w", err)
	}
	return nil
}

// Delete removes a tower and its amenity links.
func (r *GormTowerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tower_id = ?", id).Delete(&TowerAmenityModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear tower amenities: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&TowerModel{})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
				return domain.NewConflictError(domain.CodeConstraint, "tower still has flats")
			}
			return fmt.Errorf("failed to delete tower: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("tower", id.String())
		}
		return nil
	})
}

// --- Conversion Helpers ---

func toTowerModel(t *towerDomain.Tower) *TowerModel {
	return &TowerModel{
		ID:            t.ID(),
		Name:          t.Name(),
		Address:       t.Address(),
		TotalFloors:   t.TotalFloors(),
		FlatsPerFloor: t.FlatsPerFloor(),
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

func toDomainTower(m *TowerModel, amenityIDs []uuid.UUID) *towerDomain.Tower {
	return towerDomain.ReconstructTower(
		m.ID,
		m.Name,
		m.Address,
		m.TotalFloors,
		m.FlatsPerFloor,
		amenityIDs,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

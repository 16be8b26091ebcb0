package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	amenityDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/amenity"
	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	towerDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/tower"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// CodeTowerHasFlats is returned when deleting a tower that still contains flats.
const CodeTowerHasFlats = "TOWER_HAS_FLATS"

// TowerDTO is the response representation of a tower.
type TowerDTO struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	TotalFloors   int          `json:"total_floors"`
	FlatsPerFloor int          `json:"flats_per_floor"`
	AmenityIDs    []uuid.UUID  `json:"amenity_ids"`
	Amenities     []AmenityDTO `json:"amenities,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CreateTowerRequest holds the data needed to add a tower.
type CreateTowerRequest struct {
	Name          string      `json:"name" binding:"required"`
	Address       string      `json:"address" binding:"required"`
	TotalFloors   int         `json:"total_floors" binding:"required"`
	FlatsPerFloor int         `json:"flats_per_floor"`
	AmenityIDs    []uuid.UUID `json:"amenity_ids"`
}

// UpdateTowerRequest holds a partial update. A non-nil AmenityIDs replaces the amenity set.
type UpdateTowerRequest struct {
	Name          *string      `json:"name"`
	Address       *string      `json:"address"`
	TotalFloors   *int         `json:"total_floors"`
	FlatsPerFloor *int         `json:"flats_per_floor"`
	AmenityIDs    *[]uuid.UUID `json:"amenity_ids"`
}

// TowerService manages towers and the amenities they offer.
type TowerService struct {
	towers    towerDomain.TowerRepository
	flats     flatDomain.FlatRepository
	amenities amenityDomain.AmenityRepository
	logger    *zap.Logger
}

// NewTowerService creates a new TowerService.
func NewTowerService(
	towers towerDomain.TowerRepository,
	flats flatDomain.FlatRepository,
	amenities amenityDomain.AmenityRepository,
	logger *zap.Logger,
) *TowerService {
	return &TowerService{towers: towers, flats: flats, amenities: amenities, logger: logger}
}

// ListTowers returns every tower.
func (s *TowerService) ListTowers(ctx context.Context) ([]TowerDTO, error) {
	towers, err := s.towers.List(ctx)
	if err != nil {
		return nil, failStorage(s.logger, "list towers", err)
	}
	dtos := make([]TowerDTO, len(towers))
	for i, t := range towers {
		dtos[i] = toTowerDTO(t)
	}
	return dtos, nil
}

// GetTower returns a tower with its amenities expanded.
func (s *TowerService) GetTower(ctx context.Context, id uuid.UUID) (*TowerDTO, error) {
	t, err := s.towers.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "get tower", err)
	}
	amenities, err := s.amenities.FindByIDs(ctx, t.AmenityIDs())
	if err != nil {
		return nil, failStorage(s.logger, "get tower amenities", err)
	}

	result := toTowerDTO(t)
	result.Amenities = make([]AmenityDTO, len(amenities))
	for i, a := range amenities {
		result.Amenities[i] = toAmenityDTO(a)
	}
	return &result, nil
}

// CreateTower adds a tower (admin).
func (s *TowerService) CreateTower(ctx context.Context, caller Caller, req CreateTowerRequest) (*TowerDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	amenityIDs, err := s.resolveAmenities(ctx, req.AmenityIDs)
	if err != nil {
		return nil, err
	}

	t, err := towerDomain.NewTower(req.Name, req.Address, req.TotalFloors, req.FlatsPerFloor, amenityIDs)
	if err != nil {
		return nil, err
	}
	if err := s.towers.Save(ctx, t); err != nil {
		return nil, failStorage(s.logger, "create tower", err)
	}

	s.logger.Info("tower created", zap.String("tower_id", t.ID().String()), zap.String("name", t.Name()))
	return s.GetTower(ctx, t.ID())
}

// UpdateTower applies a partial update (admin).
func (s *TowerService) UpdateTower(ctx context.Context, caller Caller, id uuid.UUID, req UpdateTowerRequest) (*TowerDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	t, err := s.towers.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "update tower", err)
	}

	name, address, floors, perFloor := t.Name(), t.Address(), t.TotalFloors(), t.FlatsPerFloor()
	if req.Name != nil {
		name = *req.Name
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.TotalFloors != nil {
		floors = *req.TotalFloors
	}
	if req.FlatsPerFloor != nil {
		perFloor = *req.FlatsPerFloor
	}
	if err := t.Update(name, address, floors, perFloor); err != nil {
		return nil, err
	}
	if req.AmenityIDs != nil {
		ids, err := s.resolveAmenities(ctx, *req.AmenityIDs)
		if err != nil {
			return nil, err
		}
		t.SetAmenities(ids)
	}

	if err := s.towers.Update(ctx, t); err != nil {
		return nil, failStorage(s.logger, "update tower", err, zap.String("tower_id", id.String()))
	}
	return s.GetTower(ctx, id)
}

// DeleteTower removes an empty tower (admin).
func (s *TowerService) DeleteTower(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if _, err := s.towers.FindByID(ctx, id); err != nil {
		return failStorage(s.logger, "delete tower", err)
	}
	count, err := s.flats.CountByTower(ctx, id)
	if err != nil {
		return failStorage(s.logger, "delete tower", err)
	}
	if count > 0 {
		return domain.NewConflictError(CodeTowerHasFlats, "cannot delete a tower that has flats")
	}
	if err := s.towers.Delete(ctx, id); err != nil {
		return failStorage(s.logger, "delete tower", err, zap.String("tower_id", id.String()))
	}
	s.logger.Info("tower deleted", zap.String("tower_id", id.String()))
	return nil
}

// resolveAmenities keeps only the ids that name existing amenities.
func (s *TowerService) resolveAmenities(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.amenities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, failStorage(s.logger, "resolve amenities", err)
	}
	out := make([]uuid.UUID, len(found))
	for i, a := range found {
		out[i] = a.ID()
	}
	return out, nil
}

func toTowerDTO(t *towerDomain.Tower) TowerDTO {
	ids := t.AmenityIDs()
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return TowerDTO{
		ID:            t.ID(),
		Name:          t.Name(),
		Address:       t.Address(),
		TotalFloors:   t.TotalFloors(),
		FlatsPerFloor: t.FlatsPerFloor(),
		AmenityIDs:    ids,
		CreatedAt:     t.CreatedAt(),
		UpdatedAt:     t.UpdatedAt(),
	}
}

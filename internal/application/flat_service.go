package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/booking"
	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	towerDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/tower"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// CodeFlatHasBookings is returned when deleting a flat that bookings still reference.
const CodeFlatHasBookings = "FLAT_HAS_BOOKINGS"

// FlatDTO is the response representation of a flat.
type FlatDTO struct {
	ID          uuid.UUID       `json:"id"`
	TowerID     uuid.UUID       `json:"tower_id"`
	UnitNumber  string          `json:"unit_number"`
	Floor       int             `json:"floor"`
	Bedrooms    int             `json:"bedrooms"`
	Bathrooms   int             `json:"bathrooms"`
	AreaSqft    *int            `json:"area_sqft,omitempty"`
	Rent        decimal.Decimal `json:"rent"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FlatQuery filters a flat listing.
type FlatQuery struct {
	TowerID  *uuid.UUID
	Bedrooms *int
	MinRent  *decimal.Decimal
	MaxRent  *decimal.Decimal
}

// cacheKey renders the query as a stable cache key.
func (q FlatQuery) cacheKey() string {
	parts := make([]string, 0, 4)
	if q.TowerID != nil {
		parts = append(parts, "tower="+q.TowerID.String())
	}
	if q.Bedrooms != nil {
		parts = append(parts, fmt.Sprintf("bedrooms=%d", *q.Bedrooms))
	}
	if q.MinRent != nil {
		parts = append(parts, "min="+q.MinRent.String())
	}
	if q.MaxRent != nil {
		parts = append(parts, "max="+q.MaxRent.String())
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "&")
}

// CreateFlatRequest holds the data needed to add a flat to a tower.
type CreateFlatRequest struct {
	TowerID    uuid.UUID       `json:"tower_id" binding:"required"`
	UnitNumber string          `json:"unit_number" binding:"required"`
	Floor      int             `json:"floor"`
	Bedrooms   int             `json:"bedrooms"`
	Bathrooms  int             `json:"bathrooms"`
	AreaSqft   *int            `json:"area_sqft"`
	Rent       decimal.Decimal `json:"rent" binding:"required"`
}

// UpdateFlatRequest holds a partial update. Availability is not writable here.
type UpdateFlatRequest struct {
	UnitNumber *string          `json:"unit_number"`
	Floor      *int             `json:"floor"`
	Bedrooms   *int             `json:"bedrooms"`
	Bathrooms  *int             `json:"bathrooms"`
	AreaSqft   *int             `json:"area_sqft"`
	Rent       *decimal.Decimal `json:"rent"`
}

// FlatService manages the flat catalogue.
type FlatService struct {
	flats    flatDomain.FlatRepository
	towers   towerDomain.TowerRepository
	bookings bookingDomain.BookingRepository
	cache    FlatCache
	logger   *zap.Logger
}

// NewFlatService creates a new FlatService.
func NewFlatService(
	flats flatDomain.FlatRepository,
	towers towerDomain.TowerRepository,
	bookings bookingDomain.BookingRepository,
	cache FlatCache,
	logger *zap.Logger,
) *FlatService {
	if cache == nil {
		cache = NoopFlatCache{}
	}
	return &FlatService{flats: flats, towers: towers, bookings: bookings, cache: cache, logger: logger}
}

// ListFlats returns flats matching q. Admins see every flat; everyone else sees
// available flats only, served from the cache when possible.
func (s *FlatService) ListFlats(ctx context.Context, caller Caller, q FlatQuery) ([]FlatDTO, error) {
	filter := flatDomain.ListFilter{
		TowerID:  q.TowerID,
		Bedrooms: q.Bedrooms,
		MinRent:  q.MinRent,
		MaxRent:  q.MaxRent,
	}
	if caller.IsAdmin() {
		return s.list(ctx, filter)
	}

	key := q.cacheKey()
	cached, gen, ok := s.cache.GetFlats(ctx, key)
	if ok {
		return cached, nil
	}

	filter.AvailableOnly = true
	dtos, err := s.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cache.SetFlats(ctx, key, gen, dtos)
	return dtos, nil
}

func (s *FlatService) list(ctx context.Context, filter flatDomain.ListFilter) ([]FlatDTO, error) {
	flats, err := s.flats.List(ctx, filter)
	if err != nil {
		return nil, failStorage(s.logger, "list flats", err)
	}
	dtos := make([]FlatDTO, len(flats))
	for i, f := range flats {
		dtos[i] = toFlatDTO(f)
	}
	return dtos, nil
}

// GetFlat returns a flat. An occupied flat is hidden from non-admin callers.
func (s *FlatService) GetFlat(ctx context.Context, caller Caller, id uuid.UUID) (*FlatDTO, error) {
	f, err := s.flats.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "get flat", err)
	}
	if !caller.IsAdmin() && !f.IsAvailable() {
		return nil, domain.NewNotFoundError("flat", id.String())
	}
	result := toFlatDTO(f)
	return &result, nil
}

// CreateFlat adds an available flat to an existing tower (admin).
func (s *FlatService) CreateFlat(ctx context.Context, caller Caller, req CreateFlatRequest) (*FlatDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	if _, err := s.towers.FindByID(ctx, req.TowerID); err != nil {
		return nil, failStorage(s.logger, "create flat", err)
	}

	f, err := flatDomain.NewFlat(req.TowerID, flatDomain.Details{
		UnitNumber: req.UnitNumber,
		Floor:      req.Floor,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		AreaSqft:   req.AreaSqft,
		Rent:       req.Rent,
	})
	if err != nil {
		return nil, err
	}
	if err := s.flats.Save(ctx, f); err != nil {
		return nil, failStorage(s.logger, "create flat", err, zap.String("tower_id", req.TowerID.String()))
	}

	s.logger.Info("flat created",
		zap.String("flat_id", f.ID().String()),
		zap.String("unit_number", f.UnitNumber()),
	)
	s.cache.InvalidateFlats(ctx)

	result := toFlatDTO(f)
	return &result, nil
}

// UpdateFlat applies a partial update to a flat's attributes (admin).
func (s *FlatService) UpdateFlat(ctx context.Context, caller Caller, id uuid.UUID, req UpdateFlatRequest) (*FlatDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	f, err := s.flats.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "update flat", err)
	}

	d := f.Details()
	if req.UnitNumber != nil {
		d.UnitNumber = *req.UnitNumber
	}
	if req.Floor != nil {
		d.Floor = *req.Floor
	}
	if req.Bedrooms != nil {
		d.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		d.Bathrooms = *req.Bathrooms
	}
	if req.AreaSqft != nil {
		d.AreaSqft = req.AreaSqft
	}
	if req.Rent != nil {
		d.Rent = *req.Rent
	}
	if err := f.UpdateDetails(d); err != nil {
		return nil, err
	}
	if err := s.flats.UpdateDetails(ctx, f); err != nil {
		return nil, failStorage(s.logger, "update flat", err, zap.String("flat_id", id.String()))
	}

	s.cache.InvalidateFlats(ctx)

	// Re-read so the response carries the stored availability, not the copy loaded above.
	updated, err := s.flats.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "update flat", err)
	}
	result := toFlatDTO(updated)
	return &result, nil
}

// DeleteFlat removes a flat that no booking references (admin).
func (s *FlatService) DeleteFlat(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if _, err := s.flats.FindByID(ctx, id); err != nil {
		return failStorage(s.logger, "delete flat", err)
	}
	count, err := s.bookings.CountByFlat(ctx, id)
	if err != nil {
		return failStorage(s.logger, "delete flat", err)
	}
	if count > 0 {
		return domain.NewConflictError(CodeFlatHasBookings, "cannot delete a flat with bookings")
	}
	if err := s.flats.Delete(ctx, id); err != nil {
		return failStorage(s.logger, "delete flat", err, zap.String("flat_id", id.String()))
	}

	s.logger.Info("flat deleted", zap.String("flat_id", id.String()))
	s.cache.InvalidateFlats(ctx)
	return nil
}

func toFlatDTO(f *flatDomain.Flat) FlatDTO {
	d := f.Details()
	return FlatDTO{
		ID:          f.ID(),
		TowerID:     f.TowerID(),
		UnitNumber:  d.UnitNumber,
		Floor:       d.Floor,
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		AreaSqft:    d.AreaSqft,
		Rent:        d.Rent,
		IsAvailable: f.IsAvailable(),
		CreatedAt:   f.CreatedAt(),
		UpdatedAt:   f.UpdatedAt(),
	}
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	amenityDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/amenity"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// AmenityDTO is the response representation of an amenity.
type AmenityDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Type        string           `json:"type"`
	Description string           `json:"description,omitempty"`
	Hours       string           `json:"hours,omitempty"`
	Fee         *decimal.Decimal `json:"fee,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AmenityRequest holds the fields of an amenity for create and full update.
type AmenityRequest struct {
	Name        string           `json:"name" binding:"required"`
	Type        string           `json:"type" binding:"required"`
	Description string           `json:"description"`
	Hours       string           `json:"hours"`
	Fee         *decimal.Decimal `json:"fee"`
}

func (r AmenityRequest) attributes() amenityDomain.Attributes {
	return amenityDomain.Attributes{
		Name:        r.Name,
		Type:        amenityDomain.Type(r.Type),
		Description: r.Description,
		Hours:       r.Hours,
		Fee:         r.Fee,
	}
}

// AmenityService manages shared facilities.
type AmenityService struct {
	amenities amenityDomain.AmenityRepository
	logger    *zap.Logger
}

// NewAmenityService creates a new AmenityService.
func NewAmenityService(amenities amenityDomain.AmenityRepository, logger *zap.Logger) *AmenityService {
	return &AmenityService{amenities: amenities, logger: logger}
}

// ListAmenities returns amenities, optionally of a single type.
func (s *AmenityService) ListAmenities(ctx context.Context, amenityType string) ([]AmenityDTO, error) {
	t := amenityDomain.Type(amenityType)
	if t != "" && !t.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid amenity type %q", amenityType))
	}
	amenities, err := s.amenities.List(ctx, t)
	if err != nil {
		return nil, failStorage(s.logger, "list amenities", err)
	}
	dtos := make([]AmenityDTO, len(amenities))
	for i, a := range amenities {
		dtos[i] = toAmenityDTO(a)
	}
	return dtos, nil
}

func (s *AmenityService) GetAmenity(ctx context.Context, id uuid.UUID) (*AmenityDTO, error) {
	a, err := s.amenities.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "get amenity", err)
	}
	result := toAmenityDTO(a)
	return &result, nil
}

// CreateAmenity adds an amenity (admin).
func (s *AmenityService) CreateAmenity(ctx context.Context, caller Caller, req AmenityRequest) (*AmenityDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	a, err := amenityDomain.NewAmenity(req.attributes())
	if err != nil {
		return nil, err
	}
	if err := s.amenities.Save(ctx, a); err != nil {
		return nil, failStorage(s.logger, "create amenity", err)
	}
	s.logger.Info("amenity created", zap.String("amenity_id", a.ID().String()))
	result := toAmenityDTO(a)
	return &result, nil
}

// UpdateAmenity replaces an amenity's fields (admin).
func (s *AmenityService) UpdateAmenity(ctx context.Context, caller Caller, id uuid.UUID, req AmenityRequest) (*AmenityDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	a, err := s.amenities.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "update amenity", err)
	}
	if err := a.Update(req.attributes()); err != nil {
		return nil, err
	}
	if err := s.amenities.Update(ctx, a); err != nil {
		return nil, failStorage(s.logger, "update amenity", err)
	}
	result := toAmenityDTO(a)
	return &result, nil
}

// DeleteAmenity removes an amenity and detaches it from towers (admin).
func (s *AmenityService) DeleteAmenity(ctx context.Context, caller Caller, id uuid.UUID) error {
	if err := requireAdmin(caller); err != nil {
		return err
	}
	if err := s.amenities.Delete(ctx, id); err != nil {
		return failStorage(s.logger, "delete amenity", err, zap.String("amenity_id", id.String()))
	}
	return nil
}

func toAmenityDTO(a *amenityDomain.Amenity) AmenityDTO {
	attrs := a.Attributes()
	return AmenityDTO{
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

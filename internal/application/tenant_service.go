package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/booking"
	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	leaseDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/lease"
	userDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/user"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// TenantDetailsDTO is a user together with every lease they hold or held.
type TenantDetailsDTO struct {
	User              UserDTO    `json:"user"`
	Leases            []LeaseDTO `json:"leases"`
	ActiveLeasesCount int        `json:"active_leases_count"`
}

// TenantService answers admin queries about tenants and leases.
type TenantService struct {
	users    userDomain.UserRepository
	leases   leaseDomain.LeaseRepository
	bookings bookingDomain.BookingRepository
	flats    flatDomain.FlatRepository
	logger   *zap.Logger
}

// NewTenantService creates a new TenantService.
func NewTenantService(
	users userDomain.UserRepository,
	leases leaseDomain.LeaseRepository,
	bookings bookingDomain.BookingRepository,
	flats flatDomain.FlatRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{users: users, leases: leases, bookings: bookings, flats: flats, logger: logger}
}

// ListTenants returns users with at least one active lease.
func (s *TenantService) ListTenants(ctx context.Context, caller Caller) ([]UserDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.users.ListTenants(ctx)
	if err != nil {
		return nil, failStorage(s.logger, "list tenants", err)
	}
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = toUserDTO(u)
	}
	return dtos, nil
}

// GetTenantDetails returns a user with all their leases and the flat of each.
func (s *TenantService) GetTenantDetails(ctx context.Context, caller Caller, userID uuid.UUID) (*TenantDetailsDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, failStorage(s.logger, "get tenant", err)
	}
	leases, err := s.leases.FindByTenant(ctx, userID)
	if err != nil {
		return nil, failStorage(s.logger, "get tenant leases", err)
	}

	result := &TenantDetailsDTO{User: toUserDTO(u), Leases: make([]LeaseDTO, len(leases))}
	for i, l := range leases {
		dto, err := s.leaseWithFlat(ctx, l)
		if err != nil {
			return nil, err
		}
		result.Leases[i] = dto
		if l.IsActive() {
			result.ActiveLeasesCount++
		}
	}
	return result, nil
}

// ListLeases returns leases, optionally filtered by status.
func (s *TenantService) ListLeases(ctx context.Context, caller Caller, status string, page, limit int) (*domain.PaginatedResult[LeaseDTO], error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	var st leaseDomain.LeaseStatus
	if status != "" {
		parsed, err := leaseDomain.ParseLeaseStatus(status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		st = parsed
	}

	leases, total, err := s.leases.List(ctx, st, page, limit)
	if err != nil {
		return nil, failStorage(s.logger, "list leases", err)
	}
	dtos := make([]LeaseDTO, len(leases))
	for i, l := range leases {
		dtos[i] = toLeaseDTO(l)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetLease returns a lease with its flat.
func (s *TenantService) GetLease(ctx context.Context, caller Caller, id uuid.UUID) (*LeaseDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	l, err := s.leases.FindByID(ctx, id)
	if err != nil {
		return nil, failStorage(s.logger, "get lease", err)
	}
	dto, err := s.leaseWithFlat(ctx, l)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *TenantService) leaseWithFlat(ctx context.Context, l *leaseDomain.Lease) (LeaseDTO, error) {
	dto := toLeaseDTO(l)
	bk, err := s.bookings.FindByID(ctx, l.BookingID())
	if err != nil {
		return dto, failStorage(s.logger, "load lease booking", err)
	}
	f, err := s.flats.FindByID(ctx, bk.FlatID())
	if err != nil {
		return dto, failStorage(s.logger, "load lease flat", err)
	}
	flat := toFlatDTO(f)
	dto.Flat = &flat
	return dto, nil
}

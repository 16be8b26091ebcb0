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

	leaseDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/lease"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// LeaseModel is the GORM model for the leases table.
type LeaseModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     *time.Time      `gorm:"type:date"`
	MonthlyRent decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status      string          `gorm:"not null;size:20;index"`
	Version     int64           `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (LeaseModel) TableName() string {
	return "leases"
}

// GormLeaseRepository is the GORM-based implementation of LeaseRepository.
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository.
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByID retrieves a lease by its unique identifier.
func (r *GormLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*leaseDomain.Lease, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id), id.String())
}

// FindByIDForUpdate retrieves a lease with a row lock.
func (r *GormLeaseRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*leaseDomain.Lease, error) {
	return r.findOne(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id), id.String())
}

// FindByBookingID retrieves the lease created by a booking's approval.
func (r *GormLeaseRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*leaseDomain.Lease, error) {
	return r.findOne(r.db.WithContext(ctx).Where("booking_id = ?", bookingID), bookingID.String())
}

func (r *GormLeaseRepository) findOne(query *gorm.DB, ref string) (*leaseDomain.Lease, error) {
	var model LeaseModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("lease", ref)
		}
		return nil, fmt.Errorf("failed to find lease: %w", err)
	}
	return toDomainLease(&model)
}

// FindByTenant returns every lease whose booking belongs to userID.
func (r *GormLeaseRepository) FindByTenant(ctx context.Context, userID uuid.UUID) ([]*leaseDomain.Lease, error) {
	var models []LeaseModel
	if err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = leases.booking_id").
		Where("bookings.user_id = ?", userID).
		Order("leases.start_date DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find tenant leases: %w", err)
	}
	return toDomainLeases(models)
}

// List returns leases with an optional status filter, newest first.
func (r *GormLeaseRepository) List(ctx context.Context, status leaseDomain.LeaseStatus, page, limit int) ([]*leaseDomain.Lease, int64, error) {
	query := r.db.WithContext(ctx).Model(&LeaseModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leases: %w", err)
	}

	var models []LeaseModel
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list leases: %w", err)
	}

	leases, err := toDomainLeases(models)
	if err != nil {
		return nil, 0, err
	}
	return leases, total, nil
}

// ActiveRents returns the monthly rent of every active lease.
func (r *GormLeaseRepository) ActiveRents(ctx context.Context) ([]decimal.Decimal, error) {
	var rents []decimal.Decimal
	if err := r.db.WithContext(ctx).Model(&LeaseModel{}).
		Where("status = ?", string(leaseDomain.StatusActive)).
		Pluck("monthly_rent", &rents).Error; err != nil {
		return nil, fmt.Errorf("failed to load active rents: %w", err)
	}
	return rents, nil
}

// CountActiveByFlat counts active leases whose booking targets flatID.
func (r *GormLeaseRepository) CountActiveByFlat(ctx context.Context, flatID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&LeaseModel{}).
		Joins("JOIN bookings ON bookings.id = leases.booking_id").
		Where("bookings.flat_id = ? AND leases.status = ?", flatID, string(leaseDomain.StatusActive)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active leases: %w", err)
	}
	return count, nil
}

// Save persists a new lease. A second lease for one booking violates the unique index.
func (r *GormLeaseRepository) Save(ctx context.Context, l *leaseDomain.Lease) error {
	if err := r.db.WithContext(ctx).Create(toLeaseModel(l)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(domain.CodeConstraint, "booking already has a lease")
		}
		return fmt.Errorf("failed to save lease: %w", err)
	}
	return nil
}

// UpdateStatus writes the new status and end date guarded by the expected status and version.
func (r *GormLeaseRepository) UpdateStatus(ctx context.Context, l *leaseDomain.Lease, expectedStatus leaseDomain.LeaseStatus) error {
	expectedVersion := l.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&LeaseModel{}).
		Where("id = ? AND status = ? AND version = ?", l.ID(), string(expectedStatus), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(l.Status()),
			"end_date":   l.EndDate(),
			"version":    l.Version(),
			"updated_at": l.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update lease: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError(domain.CodeConcurrentUpdate, "lease was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toLeaseModel(l *leaseDomain.Lease) *LeaseModel {
	return &LeaseModel{
		ID:          l.ID(),
		BookingID:   l.BookingID(),
		StartDate:   l.StartDate(),
		EndDate:     l.EndDate(),
		MonthlyRent: l.MonthlyRent(),
		Status:      string(l.Status()),
		Version:     l.Version(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
}

func toDomainLease(m *LeaseModel) (*leaseDomain.Lease, error) {
	status, err := leaseDomain.ParseLeaseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	var endDate *time.Time
	if m.EndDate != nil {
		d := dateOnly(*m.EndDate)
		endDate = &d
	}

	return leaseDomain.ReconstructLease(
		m.ID,
		m.BookingID,
		dateOnly(m.StartDate),
		endDate,
		m.MonthlyRent,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainLeases(models []LeaseModel) ([]*leaseDomain.Lease, error) {
	leases := make([]*leaseDomain.Lease, len(models))
	for i := range models {
		l, err := toDomainLease(&models[i])
		if err != nil {
			return nil, err
		}
		leases[i] = l
	}
	return leases, nil
}

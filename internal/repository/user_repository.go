package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/user"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"not null;size:255;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Name         string    `gorm:"not null;size:100"`
	Phone        string    `gorm:"size:20"`
	Role         string    `gorm:"not null;size:20"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string {
	return "users"
}

// GormUserRepository is the GORM-based implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id), id.String())
}

// FindByEmail looks a user up by normalized email.
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	email = userDomain.NormalizeEmail(email)
	return r.findOne(r.db.WithContext(ctx).Where("email = ?", email), email)
}

func (r *GormUserRepository) findOne(query *gorm.DB, ref string) (*userDomain.User, error) {
	var model UserModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("user", ref)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toDomainUser(&model), nil
}

func (r *GormUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*userDomain.User, error) {
	if len(ids) == 0 {
		return []*userDomain.User{}, nil
	}
	var models []UserModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	return toDomainUsers(models), nil
}

// ListTenants returns users holding at least one active lease, ordered by name.
func (r *GormUserRepository) ListTenants(ctx context.Context) ([]*userDomain.User, error) {
	var models []UserModel
	active := r.db.Table("bookings").
		Select("bookings.user_id").
		Joins("JOIN leases ON leases.booking_id = bookings.id").
		Where("leases.status = ?", "active")
	if err := r.db.WithContext(ctx).
		Where("id IN (?)", active).
		Order("name").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return toDomainUsers(models), nil
}

// Save persists a new user. Email addresses are unique.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError(domain.CodeEmailExists, "email already registered")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toUserModel(u *userDomain.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		PasswordHash: u.PasswordHash(),
		Name:         u.Name(),
		Phone:        u.Phone(),
		Role:         string(u.Role()),
		CreatedAt:    u.CreatedAt(),
	}
}

func toDomainUser(m *UserModel) *userDomain.User {
	return userDomain.ReconstructUser(m.ID, m.Email, m.PasswordHash, m.Name, m.Phone, auth.Role(m.Role), m.CreatedAt)
}

func toDomainUsers(models []UserModel) []*userDomain.User {
	out := make([]*userDomain.User, len(models))
	for i := range models {
		out[i] = toDomainUser(&models[i])
	}
	return out
}

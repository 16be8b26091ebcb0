package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/uow"
)

// GormUnitOfWork runs a function against repositories bound to one GORM transaction.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork.
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// Do commits when fn returns nil and rolls back otherwise.
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos uow.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, uow.Repositories{
			Bookings: NewGormBookingRepository(tx),
			Leases:   NewGormLeaseRepository(tx),
			Flats:    NewGormFlatRepository(tx),
		})
	})
}

// AllModels lists every GORM model in dependency order for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&UserModel{},
		&AmenityModel{},
		&TowerModel{},
		&TowerAmenityModel{},
		&FlatModel{},
		&BookingModel{},
		&LeaseModel{},
	}
}

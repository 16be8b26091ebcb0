// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	towerDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/tower"
	userDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/user"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/repository"
)

// NewSQLiteDB opens an in-memory database with the full schema.
// A single connection keeps every query on the same memory database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(repository.AllModels()...))
	return db
}

// SeedTower stores a tower with default layout.
func SeedTower(t *testing.T, db *gorm.DB, name string) *towerDomain.Tower {
	t.Helper()
	tw, err := towerDomain.NewTower(name, "1 Main Street", 10, 0, nil)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormTowerRepository(db).Save(context.Background(), tw))
	return tw
}

// SeedFlat stores an available flat in towerID with the given rent.
func SeedFlat(t *testing.T, db *gorm.DB, towerID uuid.UUID, unit string, rent string) *flatDomain.Flat {
	t.Helper()
	f, err := flatDomain.NewFlat(towerID, flatDomain.Details{
		UnitNumber: unit,
		Floor:      1,
		Bedrooms:   2,
		Bathrooms:  1,
		Rent:       decimal.RequireFromString(rent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.NewGormFlatRepository(db).Save(context.Background(), f))
	return f
}

// SeedUser stores a user with a throwaway password hash.
func SeedUser(t *testing.T, db *gorm.DB, email string, role auth.Role) *userDomain.User {
	t.Helper()
	u, err := userDomain.NewUser(email, "$2a$10$placeholderplaceholderplaceholderpl", "Test User", "", role)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormUserRepository(db).Save(context.Background(), u))
	return u
}

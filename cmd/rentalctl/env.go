package main

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/config"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/database"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/logger"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/repository"
)

// env is what every command needs: configuration, a logger and, lazily, the database.
type env struct {
	cfg *config.ServiceConfig
	log *zap.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewNamed(cfg.AppEnv, "rentalctl")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) connect() (*gorm.DB, error) {
	return database.Connect(e.cfg.Postgres(), e.log)
}

// catalog builds the services the seed and admin commands write through.
type catalog struct {
	auth      *application.AuthService
	towers    *application.TowerService
	flats     *application.FlatService
	amenities *application.AmenityService
}

func (e *env) catalog(db *gorm.DB) catalog {
	users := repository.NewGormUserRepository(db)
	towers := repository.NewGormTowerRepository(db)
	flats := repository.NewGormFlatRepository(db)
	amenities := repository.NewGormAmenityRepository(db)
	bookings := repository.NewGormBookingRepository(db)

	// Tokens are never issued from the CLI, but AuthService requires a manager.
	jwtManager := auth.NewJWTManager(e.cfg.JWTConfig.Secret, time.Minute)

	return catalog{
		auth:      application.NewAuthService(users, jwtManager, e.log),
		towers:    application.NewTowerService(towers, flats, amenities, e.log),
		flats:     application.NewFlatService(flats, towers, bookings, nil, e.log),
		amenities: application.NewAmenityService(amenities, e.log),
	}
}

// Package seed loads demo users, towers, amenities and flats.
// Running it twice is safe: records that already exist are skipped.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// Summary counts what a run created.
type Summary struct {
	Users     int
	Towers    int
	Amenities int
	Flats     int
}

// Seeder writes demo data through the application services.
type Seeder struct {
	auth      *application.AuthService
	towers    *application.TowerService
	flats     *application.FlatService
	amenities *application.AmenityService
	logger    *zap.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(
	auth *application.AuthService,
	towers *application.TowerService,
	flats *application.FlatService,
	amenities *application.AmenityService,
	logger *zap.Logger,
) *Seeder {
	return &Seeder{auth: auth, towers: towers, flats: flats, amenities: amenities, logger: logger}
}

type demoUser struct {
	email, password, name, phone string
	admin                        bool
}

var demoUsers = []demoUser{
	{"admin@example.com", "admin123", "Admin User", "555-0100", true},
	{"user@example.com", "resident123", "Demo User", "555-0101", false},
	{"john.doe@example.com", "password123", "John Doe", "555-0102", false},
	{"jane.smith@example.com", "password123", "Jane Smith", "555-0103", false},
}

var demoTowers = []application.CreateTowerRequest{
	{Name: "Sunrise Tower", Address: "100 Main Street, Downtown", TotalFloors: 15, FlatsPerFloor: 3},
	{Name: "Sunset Tower", Address: "200 Main Street, Downtown", TotalFloors: 12, FlatsPerFloor: 3},
	{Name: "Ocean View Tower", Address: "300 Beach Boulevard, Waterfront", TotalFloors: 20, FlatsPerFloor: 3},
}

var demoAmenities = []application.AmenityRequest{
	{Name: "Fitness Center", Type: "gym", Description: "State-of-the-art gym with cardio and weight equipment", Hours: "5:00 AM - 11:00 PM"},
	{Name: "Rooftop Pool", Type: "pool", Description: "Heated rooftop swimming pool with city views", Hours: "6:00 AM - 10:00 PM"},
	{Name: "Underground Parking", Type: "parking", Description: "Secure underground parking garage with assigned spots", Hours: "24/7", Fee: fee("150.00")},
	{Name: "Guest Parking", Type: "parking", Description: "Visitor parking available on first-come basis", Hours: "24/7", Fee: fee("10.00")},
	{Name: "Community Lounge", Type: "common", Description: "Spacious lounge area with TV, games, and kitchen", Hours: "8:00 AM - 10:00 PM"},
	{Name: "Business Center", Type: "common", Description: "Co-working space with printers and meeting rooms", Hours: "7:00 AM - 9:00 PM"},
	{Name: "Yoga Studio", Type: "gym", Description: "Dedicated yoga and meditation room", Hours: "6:00 AM - 9:00 PM"},
	{Name: "BBQ Area", Type: "common", Description: "Outdoor grilling stations with seating areas", Hours: "10:00 AM - 9:00 PM", Fee: fee("25.00")},
}

type flatTemplate struct {
	bedrooms, bathrooms, area int
	rent                      int64
}

var flatTemplates = []flatTemplate{
	{1, 1, 650, 1200},
	{1, 1, 700, 1350},
	{2, 1, 900, 1800},
}

// seededFloors is how many floors of each tower get flats.
const seededFloors = 5

func fee(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// Run seeds every demo record and reports what was created.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	var err error

	if sum.Users, err = s.seedUsers(ctx); err != nil {
		return sum, err
	}
	if sum.Amenities, err = s.seedAmenities(ctx); err != nil {
		return sum, err
	}
	if sum.Towers, err = s.seedTowers(ctx); err != nil {
		return sum, err
	}
	if sum.Flats, err = s.seedFlats(ctx); err != nil {
		return sum, err
	}

	s.logger.Info("seed complete",
		zap.Int("users", sum.Users),
		zap.Int("towers", sum.Towers),
		zap.Int("amenities", sum.Amenities),
		zap.Int("flats", sum.Flats),
	)
	return sum, nil
}

func (s *Seeder) seedUsers(ctx context.Context) (int, error) {
	created := 0
	for _, u := range demoUsers {
		var err error
		if u.admin {
			_, err = s.auth.CreateAdmin(ctx, u.email, u.password, u.name)
		} else {
			_, err = s.auth.Register(ctx, application.RegisterRequest{
				Email: u.email, Password: u.password, Name: u.name, Phone: u.phone,
			})
		}
		if skip, err := existing(err); err != nil {
			return created, fmt.Errorf("seed user %s: %w", u.email, err)
		} else if !skip {
			created++
		}
	}
	return created, nil
}

func (s *Seeder) seedAmenities(ctx context.Context) (int, error) {
	current, err := s.amenities.ListAmenities(ctx, "")
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(current))
	for _, a := range current {
		have[a.Name] = true
	}

	created := 0
	for _, req := range demoAmenities {
		if have[req.Name] {
			continue
		}
		if _, err := s.amenities.CreateAmenity(ctx, application.SystemCaller(), req); err != nil {
			return created, fmt.Errorf("seed amenity %s: %w", req.Name, err)
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedTowers(ctx context.Context) (int, error) {
	current, err := s.towers.ListTowers(ctx)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t.Name] = true
	}
	amenities, err := s.amenities.ListAmenities(ctx, "")
	if err != nil {
		return 0, err
	}
	amenityIDs := make([]uuid.UUID, len(amenities))
	for i, a := range amenities {
		amenityIDs[i] = a.ID
	}

	created := 0
	for _, req := range demoTowers {
		if have[req.Name] {
			continue
		}
		req.AmenityIDs = amenityIDs
		if _, err := s.towers.CreateTower(ctx, application.SystemCaller(), req); err != nil {
			return created, fmt.Errorf("seed tower %s: %w", req.Name, err)
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedFlats(ctx context.Context) (int, error) {
	towers, err := s.towers.ListTowers(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, t := range towers {
		for floor := 1; floor <= min(t.TotalFloors, seededFloors); floor++ {
			for i, tpl := range flatTemplates {
				area := tpl.area
				req := application.CreateFlatRequest{
					TowerID:    t.ID,
					UnitNumber: fmt.Sprintf("%d%02d", floor, i+1),
					Floor:      floor,
					Bedrooms:   tpl.bedrooms,
					Bathrooms:  tpl.bathrooms,
					AreaSqft:   &area,
					// Higher floors cost more.
					Rent: decimal.NewFromInt(tpl.rent + int64(floor)*50),
				}
				_, err := s.flats.CreateFlat(ctx, application.SystemCaller(), req)
				if skip, err := existing(err); err != nil {
					return created, fmt.Errorf("seed flat %s/%s: %w", t.Name, req.UnitNumber, err)
				} else if !skip {
					created++
				}
			}
		}
	}
	return created, nil
}

// existing reports whether err only says the record is already there.
func existing(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if domain.KindOf(err) == domain.KindConflict {
		return true, nil
	}
	return false, err
}

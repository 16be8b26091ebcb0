package application

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/booking"
	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	leaseDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/lease"
	towerDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/tower"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

const paymentReportMonths = 6

// OccupancyDTO is the occupancy of one tower.
type OccupancyDTO struct {
	TowerID             uuid.UUID       `json:"tower_id"`
	TowerName           string          `json:"tower_name"`
	TotalFlats          int64           `json:"total_flats"`
	OccupiedFlats       int64           `json:"occupied_flats"`
	VacantFlats         int64           `json:"vacant_flats"`
	OccupancyPercentage decimal.Decimal `json:"occupancy_percentage"`
}

// StatusCounts are booking counts per status.
type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Declined int64 `json:"declined"`
	Total    int64 `json:"total"`
}

// BookingReportDTO compares all-time booking counts with those of a recent period.
type BookingReportDTO struct {
	Period       string       `json:"period"`
	StartDate    time.Time    `json:"start_date"`
	EndDate      time.Time    `json:"end_date"`
	Total        StatusCounts `json:"total"`
	PeriodCounts StatusCounts `json:"period_counts"`
}

// MonthlyPaymentDTO is one month of the simulated collection breakdown.
type MonthlyPaymentDTO struct {
	Month          string          `json:"month"`
	Expected       decimal.Decimal `json:"expected"`
	Received       decimal.Decimal `json:"received"`
	CollectionRate decimal.Decimal `json:"collection_rate"`
}

// PaymentReportDTO summarizes expected rent and simulated collections.
type PaymentReportDTO struct {
	ActiveLeasesCount    int                 `json:"active_leases_count"`
	TotalExpectedMonthly decimal.Decimal     `json:"total_expected_monthly"`
	MonthlyBreakdown     []MonthlyPaymentDTO `json:"monthly_breakdown"`
	Note                 string              `json:"note"`
}

// ReportService builds admin reports.
type ReportService struct {
	towers   towerDomain.TowerRepository
	flats    flatDomain.FlatRepository
	bookings bookingDomain.BookingRepository
	leases   leaseDomain.LeaseRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	towers towerDomain.TowerRepository,
	flats flatDomain.FlatRepository,
	bookings bookingDomain.BookingRepository,
	leases leaseDomain.LeaseRepository,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{towers: towers, flats: flats, bookings: bookings, leases: leases, logger: logger, now: time.Now}
}

// Occupancy returns total, occupied and vacant flat counts for every tower.
func (s *ReportService) Occupancy(ctx context.Context, caller Caller) ([]OccupancyDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	towers, err := s.towers.List(ctx)
	if err != nil {
		return nil, failStorage(s.logger, "occupancy report", err)
	}
	rows, err := s.flats.OccupancyByTower(ctx)
	if err != nil {
		return nil, failStorage(s.logger, "occupancy report", err)
	}
	byTower := make(map[uuid.UUID]flatDomain.TowerOccupancy, len(rows))
	for _, r := range rows {
		byTower[r.TowerID] = r
	}

	report := make([]OccupancyDTO, len(towers))
	for i, t := range towers {
		occ := byTower[t.ID()]
		pct := decimal.Zero
		if occ.Total > 0 {
			pct = decimal.NewFromInt(occ.Occupied).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(occ.Total)).
				Round(2)
		}
		report[i] = OccupancyDTO{
			TowerID:             t.ID(),
			TowerName:           t.Name(),
			TotalFlats:          occ.Total,
			OccupiedFlats:       occ.Occupied,
			VacantFlats:         occ.Total - occ.Occupied,
			OccupancyPercentage: pct,
		}
	}
	return report, nil
}

// Bookings returns booking counts overall and for the last week, month or year.
// An empty period means month.
func (s *ReportService) Bookings(ctx context.Context, caller Caller, period string) (*BookingReportDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	var start time.Time
	switch period {
	case "week":
		start = now.AddDate(0, 0, -7)
	case "", "month":
		period = "month"
		start = now.AddDate(0, 0, -30)
	case "year":
		start = now.AddDate(0, 0, -365)
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("invalid period %q: must be week, month or year", period))
	}

	total, err := s.bookings.CountByStatus(ctx, nil)
	if err != nil {
		return nil, failStorage(s.logger, "booking report", err)
	}
	inPeriod, err := s.bookings.CountByStatus(ctx, &start)
	if err != nil {
		return nil, failStorage(s.logger, "booking report", err)
	}

	return &BookingReportDTO{
		Period:       period,
		StartDate:    start,
		EndDate:      now,
		Total:        toStatusCounts(total),
		PeriodCounts: toStatusCounts(inPeriod),
	}, nil
}

// Payments returns expected monthly rent from active leases and a simulated
// collection history for the last six months. Collection figures are mock data,
// seeded per calendar month so repeated calls agree.
func (s *ReportService) Payments(ctx context.Context, caller Caller) (*PaymentReportDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	rents, err := s.leases.ActiveRents(ctx)
	if err != nil {
		return nil, failStorage(s.logger, "payment report", err)
	}
	expected := decimal.Sum(decimal.Zero, rents...).Round(2)

	now := s.now().UTC()
	breakdown := make([]MonthlyPaymentDTO, paymentReportMonths)
	for i := range breakdown {
		month := now.AddDate(0, 0, -30*i)
		rate := simulatedCollectionRate(month)
		breakdown[i] = MonthlyPaymentDTO{
			Month:          month.Format("January 2006"),
			Expected:       expected,
			Received:       expected.Mul(rate).Round(2),
			CollectionRate: rate.Mul(decimal.NewFromInt(100)).Round(2),
		}
	}

	return &PaymentReportDTO{
		ActiveLeasesCount:    len(rents),
		TotalExpectedMonthly: expected,
		MonthlyBreakdown:     breakdown,
		Note:                 "Payment data is mock/simulated for demonstration purposes",
	}, nil
}

// simulatedCollectionRate returns a rate in [0.90, 0.98) fixed for the month of t.
func simulatedCollectionRate(t time.Time) decimal.Decimal {
	r := rand.New(rand.NewSource(int64(int(t.Month()) + t.Year())))
	return decimal.NewFromFloat(0.90 + r.Float64()*0.08)
}

func toStatusCounts(m map[bookingDomain.BookingStatus]int64) StatusCounts {
	c := StatusCounts{
		Pending:  m[bookingDomain.StatusPending],
		Approved: m[bookingDomain.StatusApproved],
		Declined: m[bookingDomain.StatusDeclined],
	}
	c.Total = c.Pending + c.Approved + c.Declined
	return c
}

package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/booking"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/events"
	flatDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/flat"
	leaseDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/lease"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/uow"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/kafka"
)

const eventSource = "rental-portal"

var errConcurrentUpdate = domain.NewConflictError(domain.CodeConcurrentUpdate, "")

// CreateBookingRequest holds the data needed to request a flat.
type CreateBookingRequest struct {
	FlatID        uuid.UUID `json:"flat_id" binding:"required"`
	RequestedDate string    `json:"requested_date"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	FlatID        uuid.UUID `json:"flat_id"`
	RequestedDate string    `json:"requested_date"`
	Status        string    `json:"status"`
	Lease         *LeaseDTO `json:"lease,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeaseDTO is the response representation of a lease.
type LeaseDTO struct {
	ID          uuid.UUID       `json:"id"`
	BookingID   uuid.UUID       `json:"booking_id"`
	StartDate   string          `json:"start_date"`
	EndDate     *string         `json:"end_date"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	Status      string          `json:"status"`
	Flat        *FlatDTO        `json:"flat,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// BookingService runs the booking lifecycle: requests, admin decisions and lease termination.
type BookingService struct {
	uow       uow.UnitOfWork
	bookings  bookingDomain.BookingRepository
	flats     flatDomain.FlatRepository
	leases    leaseDomain.LeaseRepository
	publisher EventPublisher
	cache     FlatCache
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	work uow.UnitOfWork,
	bookings bookingDomain.BookingRepository,
	flats flatDomain.FlatRepository,
	leases leaseDomain.LeaseRepository,
	publisher EventPublisher,
	cache FlatCache,
	logger *zap.Logger,
) *BookingService {
	if cache == nil {
		cache = NoopFlatCache{}
	}
	return &BookingService{
		uow:       work,
		bookings:  bookings,
		flats:     flats,
		leases:    leases,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateBooking records a pending request by caller for a flat.
// Checks run in order: flat exists, flat available, no pending duplicate, date format.
func (s *BookingService) CreateBooking(ctx context.Context, caller Caller, req CreateBookingRequest) (*BookingDTO, error) {
	f, err := s.flats.FindByID(ctx, req.FlatID)
	if err != nil {
		return nil, s.fail("create booking", err)
	}
	if !f.IsAvailable() {
		return nil, flatDomain.UnavailableError()
	}

	pending, err := s.bookings.ExistsPending(ctx, caller.UserID, f.ID())
	if err != nil {
		return nil, s.fail("create booking", err)
	}
	if pending {
		return nil, bookingDomain.DuplicatePendingError()
	}

	requestedDate, err := bookingDomain.ParseRequestedDate(req.RequestedDate)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(caller.UserID, f.ID(), requestedDate)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, s.fail("create booking", err, zap.String("flat_id", f.ID().String()))
	}

	s.logger.Info("booking requested",
		zap.String("booking_id", bk.ID().String()),
		zap.String("user_id", caller.UserID.String()),
		zap.String("flat_id", f.ID().String()),
	)

	s.publishEvent(ctx, events.BookingRequested, bk.ID().String(), events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		UserID:        bk.UserID(),
		FlatID:        bk.FlatID(),
		RequestedDate: bookingDomain.FormatDate(bk.RequestedDate()),
		OccurredAt:    s.now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// ApproveBooking approves a pending booking. In one transaction the booking becomes
// approved, a lease is created with the flat's current rent and the flat is marked leased.
func (s *BookingService) ApproveBooking(ctx context.Context, caller Caller, bookingID uuid.UUID) (*BookingDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var (
		bk *bookingDomain.Booking
		l  *leaseDomain.Lease
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		bk, err = repos.Bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := bk.Approve(); err != nil {
			return err
		}

		f, err := repos.Flats.FindByIDForUpdate(ctx, bk.FlatID())
		if err != nil {
			return err
		}
		if err := f.MarkLeased(); err != nil {
			return err
		}

		bk.IncrementVersion()
		if err := repos.Bookings.UpdateStatus(ctx, bk, bookingDomain.StatusPending); err != nil {
			return err
		}

		l, err = leaseDomain.NewLease(bk.ID(), bk.RequestedDate(), f.Rent())
		if err != nil {
			return err
		}
		if err := repos.Leases.Save(ctx, l); err != nil {
			return err
		}

		f.IncrementVersion()
		return repos.Flats.UpdateAvailability(ctx, f)
	})
	if err != nil {
		if errors.Is(err, errConcurrentUpdate) {
			return nil, s.bookingRaceLost(ctx, bookingID)
		}
		return nil, s.fail("approve booking", err, zap.String("booking_id", bookingID.String()))
	}

	s.logger.Info("booking approved",
		zap.String("booking_id", bk.ID().String()),
		zap.String("lease_id", l.ID().String()),
		zap.String("flat_id", bk.FlatID().String()),
	)

	s.cache.InvalidateFlats(ctx)
	s.publishEvent(ctx, events.BookingApproved, bk.ID().String(), events.BookingApprovedEvent{
		BookingID:   bk.ID(),
		LeaseID:     l.ID(),
		UserID:      bk.UserID(),
		FlatID:      bk.FlatID(),
		StartDate:   bookingDomain.FormatDate(l.StartDate()),
		MonthlyRent: l.MonthlyRent(),
		ApprovedBy:  caller.UserID,
		OccurredAt:  s.now().UTC(),
	})

	result := toBookingDTO(bk)
	leaseDTO := toLeaseDTO(l)
	result.Lease = &leaseDTO
	return &result, nil
}

// DeclineBooking declines a pending booking. The flat and leases are untouched.
func (s *BookingService) DeclineBooking(ctx context.Context, caller Caller, bookingID uuid.UUID) (*BookingDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var bk *bookingDomain.Booking
	err := s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		bk, err = repos.Bookings.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if err := bk.Decline(); err != nil {
			return err
		}
		bk.IncrementVersion()
		return repos.Bookings.UpdateStatus(ctx, bk, bookingDomain.StatusPending)
	})
	if err != nil {
		if errors.Is(err, errConcurrentUpdate) {
			return nil, s.bookingRaceLost(ctx, bookingID)
		}
		return nil, s.fail("decline booking", err, zap.String("booking_id", bookingID.String()))
	}

	s.logger.Info("booking declined", zap.String("booking_id", bk.ID().String()))

	s.publishEvent(ctx, events.BookingDeclined, bk.ID().String(), events.BookingDeclinedEvent{
		BookingID:  bk.ID(),
		UserID:     bk.UserID(),
		FlatID:     bk.FlatID(),
		DeclinedBy: caller.UserID,
		OccurredAt: s.now().UTC(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// TerminateLease ends an active lease and returns its flat to the market in one transaction.
func (s *BookingService) TerminateLease(ctx context.Context, caller Caller, leaseID uuid.UUID) (*LeaseDTO, error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}

	var (
		l      *leaseDomain.Lease
		flatID uuid.UUID
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos uow.Repositories) error {
		var err error
		l, err = repos.Leases.FindByIDForUpdate(ctx, leaseID)
		if err != nil {
			return err
		}
		if err := l.Terminate(s.now()); err != nil {
			return err
		}

		bk, err := repos.Bookings.FindByID(ctx, l.BookingID())
		if err != nil {
			return err
		}
		flatID = bk.FlatID()
		f, err := repos.Flats.FindByIDForUpdate(ctx, flatID)
		if err != nil {
			return err
		}

		l.IncrementVersion()
		if err := repos.Leases.UpdateStatus(ctx, l, leaseDomain.StatusActive); err != nil {
			return err
		}

		f.MarkVacant()
		f.IncrementVersion()
		return repos.Flats.UpdateAvailability(ctx, f)
	})
	if err != nil {
		if errors.Is(err, errConcurrentUpdate) {
			return nil, s.leaseRaceLost(ctx, leaseID)
		}
		return nil, s.fail("terminate lease", err, zap.String("lease_id", leaseID.String()))
	}

	s.logger.Info("lease terminated",
		zap.String("lease_id", l.ID().String()),
		zap.String("flat_id", flatID.String()),
		zap.String("role", string(caller.Role)),
	)

	s.cache.InvalidateFlats(ctx)
	s.publishEvent(ctx, events.LeaseTerminated, l.ID().String(), events.LeaseTerminatedEvent{
		LeaseID:      l.ID(),
		BookingID:    l.BookingID(),
		FlatID:       flatID,
		EndDate:      bookingDomain.FormatDate(*l.EndDate()),
		TerminatedBy: caller.UserID,
		OccurredAt:   s.now().UTC(),
	})

	result := toLeaseDTO(l)
	return &result, nil
}

// GetBooking returns a booking. Residents only see their own; others are reported as missing.
func (s *BookingService) GetBooking(ctx context.Context, caller Caller, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, s.fail("get booking", err)
	}
	if !caller.IsAdmin() && !bk.IsOwnedBy(caller.UserID) {
		return nil, domain.NewNotFoundError("booking", bookingID.String())
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListMyBookings returns the caller's bookings, newest first.
func (s *BookingService) ListMyBookings(ctx context.Context, caller Caller, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	userID := caller.UserID
	return s.list(ctx, bookingDomain.ListFilter{UserID: &userID}, page, limit)
}

// ListAllBookings returns every booking, optionally filtered by status (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, caller Caller, status string, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if err := requireAdmin(caller); err != nil {
		return nil, err
	}
	filter := bookingDomain.ListFilter{}
	if status != "" {
		st, err := bookingDomain.ParseBookingStatus(status)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		filter.Status = st
	}
	return s.list(ctx, filter, page, limit)
}

func (s *BookingService) list(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.List(ctx, filter, page, limit)
	if err != nil {
		return nil, s.fail("list bookings", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// --- Helpers ---

// bookingRaceLost reports the status that won when a guarded update found the row already changed.
func (s *BookingService) bookingRaceLost(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return s.fail("reload booking", err)
	}
	return bookingDomain.NotPendingError(bk.Status())
}

func (s *BookingService) leaseRaceLost(ctx context.Context, leaseID uuid.UUID) error {
	l, err := s.leases.FindByID(ctx, leaseID)
	if err != nil {
		return s.fail("reload lease", err)
	}
	return leaseDomain.NotActiveError(l.Status())
}

// fail passes domain errors through and hides everything else behind a storage error.
func (s *BookingService) fail(op string, err error, fields ...zap.Field) error {
	return failStorage(s.logger, op, err, fields...)
}

func failStorage(logger *zap.Logger, op string, err error, fields ...zap.Field) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return de
	}
	logger.Error("failed to "+op, append(fields, zap.Error(err))...)
	return domain.NewStorageError(err)
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, subject string, data interface{}) {
	publishEvent(ctx, s.publisher, s.logger, eventType, subject, data)
}

func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, eventType, subject string, data interface{}) {
	if publisher == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent(eventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = subject

	if err := publisher.PublishEvent(ctx, events.TopicRentalEvents, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", events.TopicRentalEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:            bk.ID(),
		UserID:        bk.UserID(),
		FlatID:        bk.FlatID(),
		RequestedDate: bookingDomain.FormatDate(bk.RequestedDate()),
		Status:        bk.Status().String(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}
}

func toLeaseDTO(l *leaseDomain.Lease) LeaseDTO {
	dto := LeaseDTO{
		ID:          l.ID(),
		BookingID:   l.BookingID(),
		StartDate:   bookingDomain.FormatDate(l.StartDate()),
		MonthlyRent: l.MonthlyRent(),
		Status:      l.Status().String(),
		CreatedAt:   l.CreatedAt(),
		UpdatedAt:   l.UpdatedAt(),
	}
	if l.EndDate() != nil {
		end := bookingDomain.FormatDate(*l.EndDate())
		dto.EndDate = &end
	}
	return dto
}

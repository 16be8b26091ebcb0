package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/middleware"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/response"
)

// BookingService is the booking lifecycle as seen by the HTTP layer.
// *application.BookingService satisfies it.
type BookingService interface {
	CreateBooking(ctx context.Context, caller application.Caller, req application.CreateBookingRequest) (*application.BookingDTO, error)
	ApproveBooking(ctx context.Context, caller application.Caller, bookingID uuid.UUID) (*application.BookingDTO, error)
	DeclineBooking(ctx context.Context, caller application.Caller, bookingID uuid.UUID) (*application.BookingDTO, error)
	TerminateLease(ctx context.Context, caller application.Caller, leaseID uuid.UUID) (*application.LeaseDTO, error)
	GetBooking(ctx context.Context, caller application.Caller, bookingID uuid.UUID) (*application.BookingDTO, error)
	ListMyBookings(ctx context.Context, caller application.Caller, page, limit int) (*domain.PaginatedResult[application.BookingDTO], error)
	ListAllBookings(ctx context.Context, caller application.Caller, status string, page, limit int) (*domain.PaginatedResult[application.BookingDTO], error)
}

// BookingHandler handles resident booking requests.
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(middleware.AuthMiddleware(jwtManager))
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListBookings handles GET /api/v1/bookings. Callers only see their own bookings.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListMyBookings(c.Request.Context(), caller, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "booking")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), caller, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

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

// TenantService answers tenant and lease queries.
type TenantService interface {
	ListTenants(ctx context.Context, caller application.Caller) ([]application.UserDTO, error)
	GetTenantDetails(ctx context.Context, caller application.Caller, userID uuid.UUID) (*application.TenantDetailsDTO, error)
	ListLeases(ctx context.Context, caller application.Caller, status string, page, limit int) (*domain.PaginatedResult[application.LeaseDTO], error)
	GetLease(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.LeaseDTO, error)
}

// ReportService builds admin reports.
type ReportService interface {
	Occupancy(ctx context.Context, caller application.Caller) ([]application.OccupancyDTO, error)
	Bookings(ctx context.Context, caller application.Caller, period string) (*application.BookingReportDTO, error)
	Payments(ctx context.Context, caller application.Caller) (*application.PaymentReportDTO, error)
}

// AdminHandler handles admin decisions on bookings and leases, tenant queries and reports.
type AdminHandler struct {
	bookings BookingService
	tenants  TenantService
	reports  ReportService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings BookingService, tenants TenantService, reports ReportService) *AdminHandler {
	return &AdminHandler{bookings: bookings, tenants: tenants, reports: reports}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/:id", h.GetBooking)
		admin.PUT("/bookings/:id/approve", h.ApproveBooking)
		admin.PUT("/bookings/:id/decline", h.DeclineBooking)

		admin.GET("/leases", h.ListLeases)
		admin.GET("/leases/:id", h.GetLease)
		admin.DELETE("/leases/:id", h.TerminateLease)

		admin.GET("/tenants", h.ListTenants)
		admin.GET("/tenants/:id", h.GetTenant)

		admin.GET("/reports/occupancy", h.OccupancyReport)
		admin.GET("/reports/bookings", h.BookingReport)
		admin.GET("/reports/payments", h.PaymentReport)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.bookings.ListAllBookings(c.Request.Context(), caller, c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBooking handles GET /api/v1/admin/bookings/:id.
func (h *AdminHandler) GetBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.GetBooking)
}

// ApproveBooking handles PUT /api/v1/admin/bookings/:id/approve.
func (h *AdminHandler) ApproveBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.ApproveBooking)
}

// DeclineBooking handles PUT /api/v1/admin/bookings/:id/decline.
func (h *AdminHandler) DeclineBooking(c *gin.Context) {
	h.bookingAction(c, h.bookings.DeclineBooking)
}

func (h *AdminHandler) bookingAction(
	c *gin.Context,
	action func(context.Context, application.Caller, uuid.UUID) (*application.BookingDTO, error),
) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "booking")
	if !ok {
		return
	}

	result, err := action(c.Request.Context(), caller, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListLeases handles GET /api/v1/admin/leases.
func (h *AdminHandler) ListLeases(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	page, limit := parsePagination(c)
	result, err := h.tenants.ListLeases(c.Request.Context(), caller, c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetLease handles GET /api/v1/admin/leases/:id.
func (h *AdminHandler) GetLease(c *gin.Context) {
	h.leaseAction(c, h.tenants.GetLease)
}

// TerminateLease handles DELETE /api/v1/admin/leases/:id.
func (h *AdminHandler) TerminateLease(c *gin.Context) {
	h.leaseAction(c, h.bookings.TerminateLease)
}

func (h *AdminHandler) leaseAction(
	c *gin.Context,
	action func(context.Context, application.Caller, uuid.UUID) (*application.LeaseDTO, error),
) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	leaseID, ok := pathID(c, "lease")
	if !ok {
		return
	}

	result, err := action(c.Request.Context(), caller, leaseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListTenants handles GET /api/v1/admin/tenants.
func (h *AdminHandler) ListTenants(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.tenants.ListTenants(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetTenant handles GET /api/v1/admin/tenants/:id.
func (h *AdminHandler) GetTenant(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "user")
	if !ok {
		return
	}

	result, err := h.tenants.GetTenantDetails(c.Request.Context(), caller, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// OccupancyReport handles GET /api/v1/admin/reports/occupancy.
func (h *AdminHandler) OccupancyReport(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.reports.Occupancy(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// BookingReport handles GET /api/v1/admin/reports/bookings?period=week|month|year.
func (h *AdminHandler) BookingReport(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.reports.Bookings(c.Request.Context(), caller, c.DefaultQuery("period", "month"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PaymentReport handles GET /api/v1/admin/reports/payments.
func (h *AdminHandler) PaymentReport(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	result, err := h.reports.Payments(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

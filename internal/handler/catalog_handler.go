package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/middleware"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/response"
)

// TowerService manages towers.
type TowerService interface {
	ListTowers(ctx context.Context) ([]application.TowerDTO, error)
	GetTower(ctx context.Context, id uuid.UUID) (*application.TowerDTO, error)
	CreateTower(ctx context.Context, caller application.Caller, req application.CreateTowerRequest) (*application.TowerDTO, error)
	UpdateTower(ctx context.Context, caller application.Caller, id uuid.UUID, req application.UpdateTowerRequest) (*application.TowerDTO, error)
	DeleteTower(ctx context.Context, caller application.Caller, id uuid.UUID) error
}

// FlatService manages flats.
type FlatService interface {
	ListFlats(ctx context.Context, caller application.Caller, q application.FlatQuery) ([]application.FlatDTO, error)
	GetFlat(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.FlatDTO, error)
	CreateFlat(ctx context.Context, caller application.Caller, req application.CreateFlatRequest) (*application.FlatDTO, error)
	UpdateFlat(ctx context.Context, caller application.Caller, id uuid.UUID, req application.UpdateFlatRequest) (*application.FlatDTO, error)
	DeleteFlat(ctx context.Context, caller application.Caller, id uuid.UUID) error
}

// AmenityService manages amenities.
type AmenityService interface {
	ListAmenities(ctx context.Context, amenityType string) ([]application.AmenityDTO, error)
	GetAmenity(ctx context.Context, id uuid.UUID) (*application.AmenityDTO, error)
	CreateAmenity(ctx context.Context, caller application.Caller, req application.AmenityRequest) (*application.AmenityDTO, error)
	UpdateAmenity(ctx context.Context, caller application.Caller, id uuid.UUID, req application.AmenityRequest) (*application.AmenityDTO, error)
	DeleteAmenity(ctx context.Context, caller application.Caller, id uuid.UUID) error
}

// CatalogHandler serves towers, flats and amenities: public reads and admin CRUD.
type CatalogHandler struct {
	towers    TowerService
	flats     FlatService
	amenities AmenityService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(towers TowerService, flats FlatService, amenities AmenityService) *CatalogHandler {
	return &CatalogHandler{towers: towers, flats: flats, amenities: amenities}
}

// RegisterRoutes registers public catalogue routes and their admin counterparts.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	public := r.Group("/api/v1")
	{
		public.GET("/towers", h.ListTowers)
		public.GET("/towers/:id", h.GetTower)
		public.GET("/flats", h.ListFlats)
		public.GET("/flats/:id", h.GetFlat)
		public.GET("/amenities", h.ListAmenities)
		public.GET("/amenities/:id", h.GetAmenity)
	}

	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/towers", h.ListTowers)
		admin.POST("/towers", h.CreateTower)
		admin.GET("/towers/:id", h.GetTower)
		admin.PUT("/towers/:id", h.UpdateTower)
		admin.DELETE("/towers/:id", h.DeleteTower)

		admin.GET("/flats", h.ListFlats)
		admin.POST("/flats", h.CreateFlat)
		admin.GET("/flats/:id", h.GetFlat)
		admin.PUT("/flats/:id", h.UpdateFlat)
		admin.DELETE("/flats/:id", h.DeleteFlat)

		admin.GET("/amenities", h.ListAmenities)
		admin.POST("/amenities", h.CreateAmenity)
		admin.GET("/amenities/:id", h.GetAmenity)
		admin.PUT("/amenities/:id", h.UpdateAmenity)
		admin.DELETE("/amenities/:id", h.DeleteAmenity)
	}
}

// optionalCaller returns the identity set by AuthMiddleware, or an anonymous caller on public routes.
func optionalCaller(c *gin.Context) application.Caller {
	var caller application.Caller
	caller.UserID, _ = middleware.GetUserID(c)
	caller.Role, _ = middleware.GetUserRole(c)
	return caller
}

// ListTowers handles GET /api/v1/towers.
func (h *CatalogHandler) ListTowers(c *gin.Context) {
	result, err := h.towers.ListTowers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetTower handles GET /api/v1/towers/:id.
func (h *CatalogHandler) GetTower(c *gin.Context) {
	id, ok := pathID(c, "tower")
	if !ok {
		return
	}
	result, err := h.towers.GetTower(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateTower handles POST /api/v1/admin/towers.
func (h *CatalogHandler) CreateTower(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req application.CreateTowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.towers.CreateTower(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateTower handles PUT /api/v1/admin/towers/:id.
func (h *CatalogHandler) UpdateTower(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "tower")
	if !ok {
		return
	}
	var req application.UpdateTowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.towers.UpdateTower(c.Request.Context(), caller, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteTower handles DELETE /api/v1/admin/towers/:id.
func (h *CatalogHandler) DeleteTower(c *gin.Context) {
	h.deleteAction(c, "tower", h.towers.DeleteTower)
}

// ListFlats handles GET /api/v1/flats with optional tower_id, bedrooms, min_rent and max_rent filters.
// The admin route lists every flat; the public one only available flats.
func (h *CatalogHandler) ListFlats(c *gin.Context) {
	var (
		q  application.FlatQuery
		ok bool
	)
	if q.TowerID, ok = queryUUID(c, "tower_id"); !ok {
		return
	}
	if q.Bedrooms, ok = queryInt(c, "bedrooms"); !ok {
		return
	}
	if q.MinRent, ok = queryDecimal(c, "min_rent"); !ok {
		return
	}
	if q.MaxRent, ok = queryDecimal(c, "max_rent"); !ok {
		return
	}

	result, err := h.flats.ListFlats(c.Request.Context(), optionalCaller(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetFlat handles GET /api/v1/flats/:id.
func (h *CatalogHandler) GetFlat(c *gin.Context) {
	id, ok := pathID(c, "flat")
	if !ok {
		return
	}
	result, err := h.flats.GetFlat(c.Request.Context(), optionalCaller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateFlat handles POST /api/v1/admin/flats.
func (h *CatalogHandler) CreateFlat(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req application.CreateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.flats.CreateFlat(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateFlat handles PUT /api/v1/admin/flats/:id.
func (h *CatalogHandler) UpdateFlat(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "flat")
	if !ok {
		return
	}
	var req application.UpdateFlatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.flats.UpdateFlat(c.Request.Context(), caller, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteFlat handles DELETE /api/v1/admin/flats/:id.
func (h *CatalogHandler) DeleteFlat(c *gin.Context) {
	h.deleteAction(c, "flat", h.flats.DeleteFlat)
}

// ListAmenities handles GET /api/v1/amenities?type=.
func (h *CatalogHandler) ListAmenities(c *gin.Context) {
	result, err := h.amenities.ListAmenities(c.Request.Context(), c.Query("type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetAmenity handles GET /api/v1/amenities/:id.
func (h *CatalogHandler) GetAmenity(c *gin.Context) {
	id, ok := pathID(c, "amenity")
	if !ok {
		return
	}
	result, err := h.amenities.GetAmenity(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateAmenity handles POST /api/v1/admin/amenities.
func (h *CatalogHandler) CreateAmenity(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var req application.AmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.amenities.CreateAmenity(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateAmenity handles PUT /api/v1/admin/amenities/:id.
func (h *CatalogHandler) UpdateAmenity(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "amenity")
	if !ok {
		return
	}
	var req application.AmenityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.amenities.UpdateAmenity(c.Request.Context(), caller, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteAmenity handles DELETE /api/v1/admin/amenities/:id.
func (h *CatalogHandler) DeleteAmenity(c *gin.Context) {
	h.deleteAction(c, "amenity", h.amenities.DeleteAmenity)
}

func (h *CatalogHandler) deleteAction(
	c *gin.Context,
	what string,
	del func(context.Context, application.Caller, uuid.UUID) error,
) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, what)
	if !ok {
		return
	}
	if err := del(c.Request.Context(), caller, id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": what + " deleted"})
}

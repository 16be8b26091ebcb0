package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/application"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/handler"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/response"
)

// --- mocks ---

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) CreateBooking(ctx context.Context, caller application.Caller, req application.CreateBookingRequest) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, req)
	return bookingResult(args)
}

func (m *mockBookingService) ApproveBooking(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, id)
	return bookingResult(args)
}

func (m *mockBookingService) DeclineBooking(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, id)
	return bookingResult(args)
}

func (m *mockBookingService) TerminateLease(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.LeaseDTO, error) {
	args := m.Called(ctx, caller, id)
	if dto, ok := args.Get(0).(*application.LeaseDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingService) GetBooking(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.BookingDTO, error) {
	args := m.Called(ctx, caller, id)
	return bookingResult(args)
}

func (m *mockBookingService) ListMyBookings(ctx context.Context, caller application.Caller, page, limit int) (*domain.PaginatedResult[application.BookingDTO], error) {
	args := m.Called(ctx, caller, page, limit)
	return bookingPage(args)
}

func (m *mockBookingService) ListAllBookings(ctx context.Context, caller application.Caller, status string, page, limit int) (*domain.PaginatedResult[application.BookingDTO], error) {
	args := m.Called(ctx, caller, status, page, limit)
	return bookingPage(args)
}

func bookingResult(args mock.Arguments) (*application.BookingDTO, error) {
	if dto, ok := args.Get(0).(*application.BookingDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func bookingPage(args mock.Arguments) (*domain.PaginatedResult[application.BookingDTO], error) {
	if p, ok := args.Get(0).(*domain.PaginatedResult[application.BookingDTO]); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockFlatService struct {
	mock.Mock
}

func (m *mockFlatService) ListFlats(ctx context.Context, caller application.Caller, q application.FlatQuery) ([]application.FlatDTO, error) {
	args := m.Called(ctx, caller, q)
	flats, _ := args.Get(0).([]application.FlatDTO)
	return flats, args.Error(1)
}

func (m *mockFlatService) GetFlat(ctx context.Context, caller application.Caller, id uuid.UUID) (*application.FlatDTO, error) {
	args := m.Called(ctx, caller, id)
	dto, _ := args.Get(0).(*application.FlatDTO)
	return dto, args.Error(1)
}

func (m *mockFlatService) CreateFlat(ctx context.Context, caller application.Caller, req application.CreateFlatRequest) (*application.FlatDTO, error) {
	args := m.Called(ctx, caller, req)
	dto, _ := args.Get(0).(*application.FlatDTO)
	return dto, args.Error(1)
}

func (m *mockFlatService) UpdateFlat(ctx context.Context, caller application.Caller, id uuid.UUID, req application.UpdateFlatRequest) (*application.FlatDTO, error) {
	args := m.Called(ctx, caller, id, req)
	dto, _ := args.Get(0).(*application.FlatDTO)
	return dto, args.Error(1)
}

func (m *mockFlatService) DeleteFlat(ctx context.Context, caller application.Caller, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

// --- fixture ---

type apiFixture struct {
	router   *gin.Engine
	jwt      *auth.JWTManager
	bookings *mockBookingService
	flats    *mockFlatService
	admin    application.Caller
	resident application.Caller
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &apiFixture{
		router:   gin.New(),
		jwt:      auth.NewJWTManager("test-secret", time.Hour),
		bookings: &mockBookingService{},
		flats:    &mockFlatService{},
		admin:    application.Caller{UserID: uuid.New(), Role: auth.RoleAdmin},
		resident: application.Caller{UserID: uuid.New(), Role: auth.RoleResident},
	}
	group := &f.router.RouterGroup
	handler.NewBookingHandler(f.bookings).RegisterRoutes(group, f.jwt)
	handler.NewAdminHandler(f.bookings, nil, nil).RegisterRoutes(group, f.jwt)
	handler.NewCatalogHandler(nil, f.flats, nil).RegisterRoutes(group, f.jwt)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, caller *application.Caller, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		token, err := f.jwt.GenerateAccessToken(caller.UserID, "user@example.com", caller.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// --- booking creation ---

func TestCreateBooking_StatusMapping(t *testing.T) {
	flatID := uuid.New()
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"created", nil, http.StatusCreated, ""},
		{"flat missing", domain.NewNotFoundError("flat", flatID.String()), http.StatusNotFound, domain.CodeNotFound},
		{"flat leased", domain.NewConflictError(domain.CodeFlatUnavailable, "flat is not available"), http.StatusBadRequest, domain.CodeFlatUnavailable},
		{"duplicate pending", domain.NewConflictError(domain.CodeDuplicatePending, "pending booking exists"), http.StatusConflict, domain.CodeDuplicatePending},
		{"bad date", domain.NewInvalidInputError(domain.CodeBadDateFormat, "use YYYY-MM-DD"), http.StatusBadRequest, domain.CodeBadDateFormat},
		{"storage", domain.NewStorageError(assert.AnError), http.StatusInternalServerError, domain.CodeStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAPIFixture(t)
			req := application.CreateBookingRequest{FlatID: flatID, RequestedDate: "2025-03-01"}
			if tt.err != nil {
				f.bookings.On("CreateBooking", mock.Anything, f.resident, req).Return(nil, tt.err)
			} else {
				f.bookings.On("CreateBooking", mock.Anything, f.resident, req).
					Return(&application.BookingDTO{ID: uuid.New(), FlatID: flatID, Status: "pending"}, nil)
			}

			w := f.do(t, http.MethodPost, "/api/v1/bookings", &f.resident, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decodeEnvelope(t, w)
			if tt.wantCode == "" {
				assert.True(t, env.Success)
			} else {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
			}
			f.bookings.AssertExpectations(t)
		})
	}
}

func TestCreateBooking_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/bookings", nil, map[string]string{"flat_id": uuid.NewString()})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.bookings.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_MissingFieldsIsBadRequest(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodPost, "/api/v1/bookings", &f.resident, map[string]string{"requested_date": "2025-03-01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBooking_EmptyDateStillReportsMissingFlat(t *testing.T) {
	f := newAPIFixture(t)
	flatID := uuid.New()
	req := application.CreateBookingRequest{FlatID: flatID}
	f.bookings.On("CreateBooking", mock.Anything, f.resident, req).
		Return(nil, domain.NewNotFoundError("flat", flatID.String()))

	w := f.do(t, http.MethodPost, "/api/v1/bookings", &f.resident, map[string]string{"flat_id": flatID.String()})

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, domain.CodeNotFound, env.Error.Code)
	f.bookings.AssertExpectations(t)
}

// --- admin decisions ---

func TestAdminDecisions_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		mockOn string
	}{
		{"approve", http.MethodPut, "/api/v1/admin/bookings/%s/approve", "ApproveBooking"},
		{"decline", http.MethodPut, "/api/v1/admin/bookings/%s/decline", "DeclineBooking"},
		{"terminate", http.MethodDelete, "/api/v1/admin/leases/%s", "TerminateLease"},
	}
	outcomes := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"not found", domain.NewNotFoundError("booking", "x"), http.StatusNotFound},
		{"invalid transition", domain.NewInvalidTransitionError(domain.CodeNotPending, "not pending", "approved"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		for _, o := range outcomes {
			t.Run(tt.name+"/"+o.name, func(t *testing.T) {
				f := newAPIFixture(t)
				id := uuid.New()
				var result interface{}
				if o.err == nil {
					if tt.mockOn == "TerminateLease" {
						result = &application.LeaseDTO{ID: id, Status: "terminated"}
					} else {
						result = &application.BookingDTO{ID: id, Status: "approved"}
					}
				}
				f.bookings.On(tt.mockOn, mock.Anything, f.admin, id).Return(result, o.err)

				w := f.do(t, tt.method, fmtPath(tt.path, id), &f.admin, nil)

				assert.Equal(t, o.wantStatus, w.Code)
				f.bookings.AssertExpectations(t)
			})
		}
	}
}

func TestAdminRoutes_RejectResidents(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodPut, fmtPath("/api/v1/admin/bookings/%s/approve", uuid.New()), &f.resident, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	f.bookings.AssertNotCalled(t, "ApproveBooking", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminRoutes_RejectMalformedID(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodDelete, "/api/v1/admin/leases/not-a-uuid", &f.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAllBookings_PassesFilterAndClampsLimit(t *testing.T) {
	f := newAPIFixture(t)
	page := domain.NewPaginatedResult([]application.BookingDTO{{ID: uuid.New()}}, 1, 2, 100)
	f.bookings.On("ListAllBookings", mock.Anything, f.admin, "pending", 2, 100).Return(&page, nil)

	w := f.do(t, http.MethodGet, "/api/v1/admin/bookings?status=pending&page=2&limit=500", &f.admin, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
	assert.Equal(t, 100, env.Meta.Limit)
}

func TestListMyBookings_DefaultPagination(t *testing.T) {
	f := newAPIFixture(t)
	page := domain.NewPaginatedResult[application.BookingDTO](nil, 0, 1, 20)
	f.bookings.On("ListMyBookings", mock.Anything, f.resident, 1, 20).Return(&page, nil)

	w := f.do(t, http.MethodGet, "/api/v1/bookings?page=-3", &f.resident, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	f.bookings.AssertExpectations(t)
}

// --- flats ---

func TestListFlats_ParsesFilters(t *testing.T) {
	f := newAPIFixture(t)
	towerID := uuid.New()
	f.flats.On("ListFlats", mock.Anything, application.Caller{}, mock.MatchedBy(func(q application.FlatQuery) bool {
		return q.TowerID != nil && *q.TowerID == towerID &&
			q.Bedrooms != nil && *q.Bedrooms == 2 &&
			q.MinRent != nil && q.MinRent.Equal(decimal.NewFromInt(1000)) &&
			q.MaxRent == nil
	})).Return([]application.FlatDTO{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/flats?tower_id="+towerID.String()+"&bedrooms=2&min_rent=1000", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	f.flats.AssertExpectations(t)
}

func TestListFlats_AdminRoutePassesAdminCaller(t *testing.T) {
	f := newAPIFixture(t)
	f.flats.On("ListFlats", mock.Anything, f.admin, application.FlatQuery{}).Return([]application.FlatDTO{}, nil)

	w := f.do(t, http.MethodGet, "/api/v1/admin/flats", &f.admin, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	f.flats.AssertExpectations(t)
}

func TestListFlats_RejectsBadFilter(t *testing.T) {
	f := newAPIFixture(t)
	w := f.do(t, http.MethodGet, "/api/v1/flats?bedrooms=two", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.flats.AssertNotCalled(t, "ListFlats", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteFlat_ConflictWhenBooked(t *testing.T) {
	f := newAPIFixture(t)
	id := uuid.New()
	f.flats.On("DeleteFlat", mock.Anything, f.admin, id).
		Return(domain.NewConflictError(application.CodeFlatHasBookings, "flat has bookings"))

	w := f.do(t, http.MethodDelete, "/api/v1/admin/flats/"+id.String(), &f.admin, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, application.CodeFlatHasBookings, decodeEnvelope(t, w).Error.Code)
}

func fmtPath(pattern string, id uuid.UUID) string {
	return fmt.Sprintf(pattern, id.String())
}

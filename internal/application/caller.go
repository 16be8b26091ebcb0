package application

import (
	"github.com/google/uuid"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// Caller identifies who is invoking a use case. Handlers build it from the JWT;
// background consumers use SystemCaller.
type Caller struct {
	UserID uuid.UUID
	Role   auth.Role
}

// SystemCaller is the identity used by event consumers.
func SystemCaller() Caller {
	return Caller{Role: auth.RoleSystem}
}

// IsAdmin reports whether the caller may run administrative operations.
func (c Caller) IsAdmin() bool {
	return c.Role == auth.RoleAdmin || c.Role == auth.RoleSystem
}

func requireAdmin(c Caller) error {
	if !c.IsAdmin() {
		return domain.NewForbiddenError("admin access required")
	}
	return nil
}

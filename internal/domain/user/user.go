package user

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var validate = validator.New()

// User is a registered resident or administrator.
type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	name         string
	phone        string
	role         auth.Role
	createdAt    time.Time
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser creates a user from an already hashed password.
func NewUser(email, passwordHash, name, phone string, role auth.Role) (*User, error) {
	email = NormalizeEmail(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, domain.NewValidationError("a valid email is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}
	if !role.IsValid() {
		return nil, domain.NewValidationError("invalid role")
	}
	return &User{
		id:           uuid.New(),
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		phone:        strings.TrimSpace(phone),
		role:         role,
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructUser rebuilds a User from persistence data.
func ReconstructUser(id uuid.UUID, email, passwordHash, name, phone string, role auth.Role, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		name:         name,
		phone:        phone,
		role:         role,
		createdAt:    createdAt,
	}
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Email() string { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Name() string { return u.name }
func (u *User) Phone() string { return u.phone }
func (u *User) Role() auth.Role { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) IsAdmin() bool { return u.role == auth.RoleAdmin }

// UserRepository defines the persistence contract for users.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)

	// ListTenants returns users holding at least one active lease.
	ListTenants(ctx context.Context) ([]*User, error)

	Save(ctx context.Context, user *User) error
}

package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	userDomain "github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/domain/user"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/auth"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/domain"
)

// RegisterRequest holds the data needed to create a resident account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest holds login credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserDTO is the response representation of a user. The password hash is never exposed.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   int64   `json:"expires_in"`
	User        UserDTO `json:"user"`
}

// AuthService handles registration, login and identity lookup.
type AuthService struct {
	users  userDomain.UserRepository
	jwt    *auth.JWTManager
	logger *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users userDomain.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwtManager, logger: logger}
}

// Register creates a resident account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	u, err := s.createUser(ctx, req.Email, req.Password, req.Name, req.Phone, auth.RoleResident)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.issue(u)
}

// CreateAdmin creates an administrator account. It is used by the operator CLI.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, name string) (*UserDTO, error) {
	u, err := s.createUser(ctx, email, password, name, "", auth.RoleAdmin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("admin created", zap.String("user_id", u.ID().String()))
	result := toUserDTO(u)
	return &result, nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, name, phone string, role auth.Role) (*userDomain.User, error) {
	if len(password) < userDomain.MinPasswordLength {
		return nil, domain.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", userDomain.MinPasswordLength))
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, failStorage(s.logger, "hash password", err)
	}
	u, err := userDomain.NewUser(email, hash, name, phone, role)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, failStorage(s.logger, "register user", err)
	}
	return u, nil
}

// Login verifies credentials and returns a token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, invalidCredentials()
		}
		return nil, failStorage(s.logger, "login", err)
	}
	if !auth.CheckPasswordHash(req.Password, u.PasswordHash()) {
		return nil, invalidCredentials()
	}
	return s.issue(u)
}

// Me returns the caller's own account.
func (s *AuthService) Me(ctx context.Context, caller Caller) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, caller.UserID)
	if err != nil {
		return nil, failStorage(s.logger, "load user", err)
	}
	result := toUserDTO(u)
	return &result, nil
}

func (s *AuthService) issue(u *userDomain.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateAccessToken(u.ID(), u.Email(), u.Role())
	if err != nil {
		return nil, failStorage(s.logger, "issue token", err)
	}
	return &AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwt.AccessTTL().Seconds()),
		User:        toUserDTO(u),
	}, nil
}

func invalidCredentials() error {
	return domain.NewUnauthorizedError(domain.CodeInvalidCredentials, "invalid email or password")
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		Phone:     u.Phone(),
		Role:      string(u.Role()),
		CreatedAt: u.CreatedAt(),
	}
}

package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
	"tap2serve_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// Custom Errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountSuspended   = errors.New("account is suspended")
)

// --- DTOs ---

// RegisterRequest is used for creating a new account.
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role"`
	RestaurantID *int64 `json:"restaurant_id"`
	BranchID     *int64 `json:"branch_id"`
}

// LoginRequest is used for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenPair carries the two JWTs issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse is the full login payload.
type LoginResponse struct {
	User   *models.User `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// --- AuthService Interface ---

type AuthService interface {
	Register(req RegisterRequest) (*models.User, error)
	Login(req LoginRequest) (*LoginResponse, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
	GetUserByID(id int64) (*models.User, error)
	SetUserStatus(id int64, status string) error
}

type authService struct {
	authRepo repositories.AuthRepository
	db       *sql.DB
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ar repositories.AuthRepository, db *sql.DB) AuthService {
	return &authService{authRepo: ar, db: db}
}

func (s *authService) Register(req RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if !utils.IsValidPasswordLength(req.Password, 8) {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	role := req.Role
	if role == "" {
		role = models.RoleWaiter
	}
	if role == models.RoleAdmin {
		// Platform admins are provisioned manually, never self-registered.
		return nil, fmt.Errorf("%w: role %q cannot be self-assigned", ErrValidation, role)
	}
	if req.RestaurantID == nil {
		return nil, fmt.Errorf("%w: restaurant_id is required for role %q", ErrValidation, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
		Status:       models.UserStatusActive,
		RestaurantID: req.RestaurantID,
		BranchID:     req.BranchID,
	}
	if _, err = s.authRepo.CreateUser(s.db, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.authRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Name, user.Role, user.RestaurantID, user.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResponse{
		User:   user,
		Tokens: TokenPair{AccessToken: accessToken, RefreshToken: refreshToken},
	}, nil
}

func (s *authService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	// Re-read the account so revoked or re-scoped users get fresh claims.
	user, err := s.authRepo.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}
	if user.Status == models.UserStatusSuspended {
		return nil, ErrAccountSuspended
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Name, user.Role, user.RestaurantID, user.BranchID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *authService) GetUserByID(id int64) (*models.User, error) {
	user, err := s.authRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *authService) SetUserStatus(id int64, status string) error {
	switch status {
	case models.UserStatusActive, models.UserStatusPending, models.UserStatusSuspended:
	default:
		return fmt.Errorf("%w: unknown user status %q", ErrValidation, status)
	}
	if err := s.authRepo.UpdateUserStatus(s.db, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}

// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockhub/stockhub-backend/internal/config"
	"github.com/stockhub/stockhub-backend/internal/models"
	"github.com/stockhub/stockhub-backend/internal/utils"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrStaffLimitReached  = errors.New("staff limit reached for this account")
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type CreateStaffRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // in seconds
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

// Register creates a manager account, the owner of a fresh inventory namespace.
// Staff accounts are only ever created by a manager via CreateStaff.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	email := normalizeEmail(req.Email)

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Username: req.Username,
		Email:    email,
		Role:     models.UserRoleManager,
		Status:   models.UserStatusActive,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find user by email
	var user models.User
	if err := s.db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Do not reveal whether the account exists
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status == models.UserStatusSuspended {
		return nil, errors.New("account is suspended")
	}

	// Verify password
	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last login time
	now := time.Now()
	user.LastLoginAt = &now
	s.db.Save(&user)

	return s.issueTokens(&user)
}

func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	// Validate refresh token
	userIDStr, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token: %w", err)
	}

	// Find user
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if user.Status != models.UserStatusActive {
		return nil, errors.New("account is not active")
	}

	return s.issueTokens(&user)
}

// CreateStaff adds a delegate account inside the manager's inventory namespace.
// At most models.MaxStaffPerManager staff may exist per manager.
func (s *AuthService) CreateStaff(managerID uuid.UUID, req *CreateStaffRequest) (*models.User, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var manager models.User
	if err := s.db.First(&manager, managerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("manager not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if manager.Role != models.UserRoleManager {
		return nil, errors.New("only managers can create staff accounts")
	}

	email := normalizeEmail(req.Email)

	staff := &models.User{
		Username: req.Username,
		Email:    email,
		Role:     models.UserRoleStaff,
		AdminID:  &managerID,
		Status:   models.UserStatusActive,
	}

	if err := staff.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The manager row is locked while the cap is checked so two concurrent
	// creations cannot both slip under the limit.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var locked models.User
		if err := tx.Clauses(forUpdate()).First(&locked, managerID).Error; err != nil {
			return fmt.Errorf("failed to lock manager row: %w", err)
		}

		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}

		var staffCount int64
		if err := tx.Model(&models.User{}).
			Where("admin_id = ?", managerID).
			Count(&staffCount).Error; err != nil {
			return fmt.Errorf("failed to count staff: %w", err)
		}
		if staffCount >= models.MaxStaffPerManager {
			return ErrStaffLimitReached
		}

		if err := tx.Create(staff).Error; err != nil {
			return fmt.Errorf("failed to create staff user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return staff, nil
}

func (s *AuthService) ListStaff(managerID uuid.UUID) ([]models.User, error) {
	var staff []models.User
	if err := s.db.Where("admin_id = ?", managerID).
		Order("created_at ASC").
		Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch staff: %w", err)
	}
	return staff, nil
}

func (s *AuthService) DeleteStaff(managerID, staffID uuid.UUID) error {
	var staff models.User
	if err := s.db.Where("id = ? AND admin_id = ?", staffID, managerID).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("staff member not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&staff).Error; err != nil {
		return fmt.Errorf("failed to delete staff user: %w", err)
	}
	return nil
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	adminID := ""
	if user.AdminID != nil {
		adminID = user.AdminID.String()
	}

	accessToken, err := utils.GenerateJWT(
		user.ID,
		user.Email,
		string(user.Role),
		adminID,
		s.cfg.JWT.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWT.AccessTokenTTL * 60,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

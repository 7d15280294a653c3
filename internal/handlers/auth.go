// internal/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stockhub/stockhub-backend/internal/config"
	"github.com/stockhub/stockhub-backend/internal/services"
	"github.com/stockhub/stockhub-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
	jwt         config.JWTConfig
}

func NewAuthHandler(authService *services.AuthService, jwt config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwt:         jwt,
	}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	h.setAuthCookies(c, resp)
	utils.CreatedResponse(c, gin.H{
		"message": "User created successfully",
		"user":    resp.User,
		"tokens":  resp,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "validation failed") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		if strings.Contains(err.Error(), "database error") {
			utils.InternalErrorResponse(c, "")
			return
		}
		utils.UnauthorizedResponse(c, err.Error())
		return
	}

	h.setAuthCookies(c, resp)
	utils.SuccessResponse(c, gin.H{
		"message": "Login successful",
		"user":    resp.User,
		"tokens":  resp,
	})
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	// Fall back to the cookie the web client keeps
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		if cookie, cerr := c.Cookie("refreshToken"); cerr == nil {
			req.RefreshToken = cookie
		}
	}

	if req.RefreshToken == "" {
		utils.UnauthorizedResponse(c, "Refresh token required")
		return
	}

	resp, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid refresh token")
		return
	}

	h.setAuthCookies(c, resp)
	utils.SuccessResponse(c, gin.H{
		"message": "Token refreshed successfully",
		"tokens":  resp,
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("accessToken", "", -1, "/", "", false, true)
	c.SetCookie("refreshToken", "", -1, "/", "", false, true)
	utils.SuccessResponse(c, gin.H{
		"message": "Logout successful",
	})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		utils.NotFoundResponse(c, "User not found")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// POST /auth/staff
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	managerID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	staff, err := h.authService.CreateStaff(managerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			utils.ConflictResponse(c, err.Error())
		case errors.Is(err, services.ErrStaffLimitReached):
			utils.ConflictResponse(c, err.Error())
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Staff account created successfully",
		"staff":   staff,
	})
}

// GET /auth/staff
func (h *AuthHandler) ListStaff(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	managerID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	staff, err := h.authService.ListStaff(managerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"staff": staff,
	})
}

// DELETE /auth/staff/:id
func (h *AuthHandler) DeleteStaff(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	managerID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	staffID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid staff ID", nil)
		return
	}

	if err := h.authService.DeleteStaff(managerID, staffID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Staff account removed",
	})
}

// setAuthCookies mirrors the token TTLs onto the cookie pair so cookie expiry
// and token expiry never drift apart.
func (h *AuthHandler) setAuthCookies(c *gin.Context, resp *services.AuthResponse) {
	secure := c.Request.TLS != nil
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", resp.AccessToken, h.jwt.AccessTokenTTL*60, "/", "", secure, true)
	c.SetCookie("refreshToken", resp.RefreshToken, h.jwt.RefreshTokenTTL*3600, "/", "", secure, true)
}

// internal/handlers/auth_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/stockhub/stockhub-backend/internal/config"
	"github.com/stockhub/stockhub-backend/internal/services"
)

func TestSetAuthCookiesFollowsConfiguredTTLs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewAuthHandler(nil, config.JWTConfig{
		AccessTokenTTL:  30, // minutes
		RefreshTokenTTL: 48, // hours
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/auth/login", nil)

	handler.setAuthCookies(c, &services.AuthResponse{
		AccessToken:  "access",
		RefreshToken: "refresh",
	})

	cookies := w.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	access := byName["accessToken"]
	if assert.NotNil(t, access) {
		assert.Equal(t, 30*60, access.MaxAge)
		assert.True(t, access.HttpOnly)
	}

	refresh := byName["refreshToken"]
	if assert.NotNil(t, refresh) {
		assert.Equal(t, 48*3600, refresh.MaxAge)
		assert.True(t, refresh.HttpOnly)
	}
}

// internal/middleware/auth_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stockhub/stockhub-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/protected", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString("user_id"),
			"email":    c.GetString("email"),
			"role":     c.GetString("role"),
			"admin_id": c.GetString("admin_id"),
		})
	})
	r.GET("/manager-only", AuthRequired(), ManagerRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestAuthRequiredWithoutToken(t *testing.T) {
	r := protectedRouter()

	req, _ := http.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredWithMalformedHeader(t *testing.T) {
	r := protectedRouter()

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredWithBearerToken(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := protectedRouter()

	userID := uuid.New()
	adminID := uuid.New()
	token, err := utils.GenerateJWT(userID, "clerk@shop.test", "staff", adminID.String(), 15)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), "clerk@shop.test")
	assert.Contains(t, w.Body.String(), adminID.String())
}

func TestAuthRequiredWithCookie(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := protectedRouter()

	token, err := utils.GenerateJWT(uuid.New(), "boss@shop.test", "manager", "", 15)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestManagerRequired(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := protectedRouter()

	staffToken, err := utils.GenerateJWT(uuid.New(), "clerk@shop.test", "staff", uuid.New().String(), 15)
	assert.NoError(t, err)

	req, _ := http.NewRequest("GET", "/manager-only", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Forbidden replies use the standard envelope, not an ad-hoc body.
	var body utils.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	if assert.NotNil(t, body.Error) {
		assert.Equal(t, "FORBIDDEN", body.Error.Code)
	}

	managerToken, err := utils.GenerateJWT(uuid.New(), "boss@shop.test", "manager", "", 15)
	assert.NoError(t, err)

	req, _ = http.NewRequest("GET", "/manager-only", nil)
	req.Header.Set("Authorization", "Bearer "+managerToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

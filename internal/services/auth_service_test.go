// internal/services/auth_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/stockhub/stockhub-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  15,
			RefreshTokenTTL: 168,
		},
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "boss@shop.test", normalizeEmail("  Boss@Shop.Test "))
	assert.Equal(t, "a@b.c", normalizeEmail("a@b.c"))
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(nil, testConfig())

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"empty request", RegisterRequest{}},
		{"bad email", RegisterRequest{Username: "boss", Email: "nope", Password: "Passw0rdX"}},
		{"weak password", RegisterRequest{Username: "boss", Email: "boss@shop.test", Password: "short"}},
		{"bad username", RegisterRequest{Username: "x", Email: "boss@shop.test", Password: "Passw0rdX"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(&tt.req)
			assert.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), "validation failed"))
		})
	}
}

func TestCreateStaffValidation(t *testing.T) {
	svc := NewAuthService(nil, testConfig())

	_, err := svc.CreateStaff(uuid.New(), &CreateStaffRequest{Email: "not-an-email"})
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "validation failed"))
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(nil, testConfig())

	_, err := svc.RefreshToken("not-a-jwt")
	assert.Error(t, err)
}

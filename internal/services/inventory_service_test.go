// internal/services/inventory_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/stockhub/stockhub-backend/internal/models"
)

func TestResolveActor(t *testing.T) {
	managerID := uuid.New()
	staffID := uuid.New()

	t.Run("manager scopes to itself", func(t *testing.T) {
		actor, err := ResolveActor(managerID.String(), "boss@shop.test", "manager", "")
		assert.NoError(t, err)
		assert.Equal(t, managerID, actor.UserID)
		assert.Equal(t, managerID, actor.AccountID)
		assert.Equal(t, "boss@shop.test", actor.Email)
		assert.Equal(t, models.UserRoleManager, actor.Role)
	})

	t.Run("staff scopes to its manager", func(t *testing.T) {
		actor, err := ResolveActor(staffID.String(), "clerk@shop.test", "staff", managerID.String())
		assert.NoError(t, err)
		assert.Equal(t, staffID, actor.UserID)
		assert.Equal(t, managerID, actor.AccountID)
		// The actor email stays the staff's own, attribution survives the
		// shared namespace
		assert.Equal(t, "clerk@shop.test", actor.Email)
	})

	t.Run("staff without manager is rejected", func(t *testing.T) {
		_, err := ResolveActor(staffID.String(), "clerk@shop.test", "staff", "")
		assert.Error(t, err)
	})

	t.Run("garbage user id is rejected", func(t *testing.T) {
		_, err := ResolveActor("not-a-uuid", "x@shop.test", "manager", "")
		assert.Error(t, err)
	})
}

func testActor() *Actor {
	id := uuid.New()
	return &Actor{
		UserID:    id,
		AccountID: id,
		Email:     "boss@shop.test",
		Role:      models.UserRoleManager,
	}
}

// These exercise the validation short-circuits, which must reject before any
// database work happens (the service holds a nil DB here on purpose).
func TestCreateItemValidation(t *testing.T) {
	svc := NewInventoryService(nil)
	actor := testActor()

	t.Run("missing fields", func(t *testing.T) {
		_, _, err := svc.CreateItem(actor, &CreateItemRequest{})
		assert.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "validation failed"))
	})

	qty := -1
	price := decimal.RequireFromString("5.00")

	t.Run("negative quantity", func(t *testing.T) {
		_, _, err := svc.CreateItem(actor, &CreateItemRequest{
			ProductName: "Widget",
			SKU:         "W-1",
			Barcode:     "123456",
			Brand:       "Acme",
			Category:    "tools",
			Quantity:    &qty,
			Price:       &price,
		})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	goodQty := 10
	badPrice := decimal.RequireFromString("-0.01")

	t.Run("negative price", func(t *testing.T) {
		_, _, err := svc.CreateItem(actor, &CreateItemRequest{
			ProductName: "Widget",
			SKU:         "W-1",
			Barcode:     "123456",
			Brand:       "Acme",
			Category:    "tools",
			Quantity:    &goodQty,
			Price:       &badPrice,
		})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestAdjustQuantityValidation(t *testing.T) {
	svc := NewInventoryService(nil)
	actor := testActor()

	t.Run("missing quantity", func(t *testing.T) {
		_, _, err := svc.AdjustQuantity(actor, 1, &AdjustQuantityRequest{})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	neg := -5
	t.Run("negative quantity", func(t *testing.T) {
		_, _, err := svc.AdjustQuantity(actor, 1, &AdjustQuantityRequest{Quantity: &neg})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})
}

func TestUpdateFieldsValidation(t *testing.T) {
	svc := NewInventoryService(nil)
	actor := testActor()

	neg := -1
	t.Run("negative quantity", func(t *testing.T) {
		_, _, err := svc.UpdateFields(actor, 1, &UpdateFieldsRequest{Quantity: &neg})
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	badPrice := decimal.RequireFromString("-3")
	t.Run("negative price", func(t *testing.T) {
		_, _, err := svc.UpdateFields(actor, 1, &UpdateFieldsRequest{Price: &badPrice})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

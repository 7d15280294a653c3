// internal/models/inventory_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		price    string
		expected string
	}{
		{"basic", 10, "5.00", "50.00"},
		{"zero quantity", 0, "9.99", "0.00"},
		{"zero price", 42, "0.00", "0.00"},
		{"cent precision", 3, "0.10", "0.30"},
		{"no float drift", 3, "19.99", "59.97"},
		{"large quantity", 100000, "2.50", "250000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := decimal.RequireFromString(tt.price)
			expected := decimal.RequireFromString(tt.expected)

			total := ComputeTotal(tt.quantity, price)
			assert.True(t, expected.Equal(total), "expected %s, got %s", expected, total)
		})
	}
}

func TestStatusForQuantityChange(t *testing.T) {
	assert.Equal(t, StockStatusIncrease, StatusForQuantityChange(10, 15))
	assert.Equal(t, StockStatusDecrease, StatusForQuantityChange(15, 10))
	assert.Equal(t, StockStatusDecrease, StatusForQuantityChange(1, 0))
}

func TestStatusForFieldUpdate(t *testing.T) {
	five := decimal.RequireFromString("5.00")
	six := decimal.RequireFromString("6.00")

	// Price changed, quantity untouched
	assert.Equal(t, StockStatusPriceUpdate, StatusForFieldUpdate(five, six, 10, 10))

	// Nothing numeric changed
	assert.Equal(t, StockStatusUpdateInfo, StatusForFieldUpdate(five, five, 10, 10))

	// Price and quantity both changed
	assert.Equal(t, StockStatusUpdateInfo, StatusForFieldUpdate(five, six, 10, 12))

	// Quantity changed alone
	assert.Equal(t, StockStatusUpdateInfo, StatusForFieldUpdate(five, five, 10, 12))

	// Equal decimals with different exponents are not a price change
	assert.Equal(t, StockStatusUpdateInfo, StatusForFieldUpdate(
		decimal.RequireFromString("5"), decimal.RequireFromString("5.00"), 10, 10))
}

func TestUserAccountID(t *testing.T) {
	managerID := uuid.New()
	staffID := uuid.New()

	manager := User{Role: UserRoleManager}
	manager.ID = managerID
	assert.Equal(t, managerID, manager.AccountID(), "manager owns its own namespace")

	staff := User{Role: UserRoleStaff, AdminID: &managerID}
	staff.ID = staffID
	assert.Equal(t, managerID, staff.AccountID(), "staff resolves to the manager's namespace")

	// Staff with a missing back-reference falls back to itself rather than panicking
	orphan := User{Role: UserRoleStaff}
	orphan.ID = staffID
	assert.Equal(t, staffID, orphan.AccountID())
}

func TestPasswordHashing(t *testing.T) {
	var user User
	assert.NoError(t, user.SetPassword("Sup3rSecret"))
	assert.NotEqual(t, "Sup3rSecret", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("Sup3rSecret"))
	assert.Error(t, user.CheckPassword("wrong"))
}

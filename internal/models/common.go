// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type UserRole string

const (
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// StockStatus tags each change-log entry with the kind of mutation it records.
type StockStatus string

const (
	StockStatusNew         StockStatus = "new"
	StockStatusIncrease    StockStatus = "increase"
	StockStatusDecrease    StockStatus = "decrease"
	StockStatusPriceUpdate StockStatus = "price update"
	StockStatusUpdateInfo  StockStatus = "update info"
)

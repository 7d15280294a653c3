// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// MaxStaffPerManager caps how many staff accounts a manager may delegate to.
const MaxStaffPerManager = 3

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;default:'manager'"`
	AdminID      *uuid.UUID `json:"admin_id,omitempty" gorm:"type:uuid;index"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Staff []User `json:"staff,omitempty" gorm:"foreignKey:AdminID"`
}

// AccountID resolves the inventory namespace this user operates in: managers own
// their namespace, staff share their manager's.
func (u *User) AccountID() uuid.UUID {
	if u.Role == UserRoleStaff && u.AdminID != nil {
		return *u.AdminID
	}
	return u.ID
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

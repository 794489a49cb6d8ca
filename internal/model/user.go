package model

import (
	"time"

	"gorm.io/gorm"
)

// User status values. "invited" is a global user status for accounts that
// have not completed onboarding yet and hold no memberships; it is never a
// per-organization role.
const (
	UserStatusInvited = "invited"
	UserStatusActive  = "active"
)

// User represents the user model stored in the database
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"type:varchar(100);uniqueIndex"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Name      string         `json:"name" gorm:"type:varchar(100)"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null;default:'invited'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// Notification is a per-user in-app notification shown in the dashboard
// header.
type Notification struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	OrganizationID uint           `json:"organization_id" gorm:"index"`
	Title          string         `json:"title" gorm:"type:varchar(200);not null"`
	Body           string         `json:"body" gorm:"type:text"`
	Read           bool           `json:"read" gorm:"default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

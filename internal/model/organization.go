package model

import (
	"time"

	"gorm.io/gorm"
)

// Organization represents a tenant. Each organization owns its own members
// and voice agents; identity is stable for the lifetime of the record.
type Organization struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Slug      string         `json:"slug" gorm:"type:varchar(100);uniqueIndex"`
	Settings  string         `json:"settings" gorm:"type:jsonb"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

package model

import (
	"time"

	"gorm.io/gorm"
)

// VoiceAgent represents a voice agent configuration record, scoped to one
// organization.
type VoiceAgent struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	OrganizationID uint           `json:"organization_id" gorm:"index;not null"`
	Name           string         `json:"name" gorm:"type:varchar(100);not null"`
	Greeting       string         `json:"greeting" gorm:"type:text"`
	Language       string         `json:"language" gorm:"type:varchar(10);default:'es'"`
	Voice          string         `json:"voice" gorm:"type:varchar(50)"`
	Prompt         string         `json:"prompt" gorm:"type:text"`
	PhoneNumber    string         `json:"phone_number" gorm:"type:varchar(30)"`
	Active         bool           `json:"active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

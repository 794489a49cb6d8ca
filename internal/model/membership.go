package model

import (
	"time"

	"gorm.io/gorm"
)

// Membership associates one user with one organization and exactly one role.
// A user holds at most one membership per organization, and exactly one
// membership per organization carries the "owner" role.
type Membership struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	UserID         uint           `json:"user_id" gorm:"uniqueIndex:idx_memberships_user_org;not null"`
	OrganizationID uint           `json:"organization_id" gorm:"uniqueIndex:idx_memberships_user_org;not null"`
	Role           string         `json:"role" gorm:"type:varchar(20);not null;default:'member'"` // 'owner', 'admin' or 'member'
	JoinedAt       time.Time      `json:"joined_at" gorm:"index;not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User         User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Organization Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}

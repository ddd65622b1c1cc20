package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records one successful login.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index" json:"userId"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ipAddress"`
	Device    string    `gorm:"type:varchar(255)" json:"device"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
}

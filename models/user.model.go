package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "STUDENT"
	RoleCreator = "CREATOR"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	ProfileImage        string     `gorm:"default:''" json:"profileImage"`
	Name                string     `gorm:"default:''" json:"name"`
	Email               string     `gorm:"unique;not null" json:"email"`
	Mobile              string     `gorm:"default:''" json:"mobile"`
	Role                string     `gorm:"default:'STUDENT'" json:"role"` // STUDENT, CREATOR, ADMIN
	Password            string     `gorm:"not null" json:"-"`
	NativeLanguage      string     `gorm:"type:varchar(10)" json:"nativeLanguage"`
	MainBalance         float64    `gorm:"default:0" json:"mainBalance"`
	LastLogin           *time.Time `json:"lastLogin"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	IsBlocked           bool       `gorm:"default:false" json:"isBlocked"`
	BlockedUntil        *time.Time `json:"blockedUntil"`
	IsDeleted           bool       `gorm:"default:false" json:"isDeleted"`
}

package course

import (
	"time"

	"gorm.io/gorm"
)

// Discount is a time-bounded percentage-off code attached to a course version.
type Discount struct {
	gorm.Model
	CourseVersionID uint      `gorm:"not null;index" json:"courseVersionId"`
	Code            string    `gorm:"not null;type:varchar(50)" json:"code"`
	Percentage      int       `gorm:"not null" json:"percentage"`
	IsActive        bool      `gorm:"not null" json:"isActive"`
	StartDate       time.Time `gorm:"not null" json:"startDate"`
	EndDate         time.Time `gorm:"not null" json:"endDate"`
	IsDeleted       bool      `gorm:"default:false" json:"isDeleted"`
}

func (Discount) TableName() string {
	return "discounts"
}

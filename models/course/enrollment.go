package course

import (
	"time"

	"gorm.io/gorm"
)

// EnrollmentStatus enum values
const (
	EnrollmentActive    = "ACTIVE"
	EnrollmentCancelled = "CANCELLED"
)

// Enrollment grants a user access to a course's locked lessons. At most one ACTIVE
// enrollment exists per (user, course).
type Enrollment struct {
	gorm.Model
	UserID          uint      `gorm:"index;not null" json:"userId"`
	CourseID        uint      `gorm:"index;not null" json:"courseId"`
	CourseVersionID uint      `gorm:"not null" json:"courseVersionId"`
	Status          string    `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	EnrolledAt      time.Time `gorm:"not null" json:"enrolledAt"`
	PricePaid       float64   `gorm:"default:0" json:"pricePaid"`
	DiscountCode    string    `gorm:"type:varchar(50)" json:"discountCode"`
	PaymentID       string    `gorm:"type:varchar(100)" json:"paymentId"`
	IsDeleted       bool      `gorm:"default:false" json:"isDeleted"`

	Course *Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

package course

import (
	"lingo/models"

	"gorm.io/gorm"
)

// ReviewStatus defines the status of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

type CourseReview struct {
	gorm.Model
	CourseID uint         `gorm:"not null;index" json:"courseId"`
	UserID   uint         `gorm:"not null;index" json:"userId"`
	Rating   int          `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Review   string       `gorm:"type:text" json:"review"`
	Status   ReviewStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	User *models.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (CourseReview) TableName() string {
	return "course_reviews"
}

package services

import (
	"context"
	"strings"

	"lingo/logger"
	"lingo/models/course"

	"gorm.io/gorm"
)

type ReviewService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewService(db *gorm.DB, log *logger.Logger) *ReviewService {
	return &ReviewService{db: db, log: log.With("service", "reviews")}
}

// Create records an enrolled student's rating of a course. Each student reviews a
// course once.
func (s *ReviewService) Create(ctx context.Context, userID, courseID uint, rating int, text string) (*course.CourseReview, error) {
	if rating < 1 || rating > 5 {
		return nil, ValidationErrors{{Field: "rating", Message: "Rating must be between 1 and 5!"}}
	}
	r := course.CourseReview{
		CourseID: courseID,
		UserID:   userID,
		Rating:   rating,
		Review:   strings.TrimSpace(text),
		Status:   course.ReviewStatusPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var enrolled int64
		if err := tx.Model(&course.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, courseID, course.EnrollmentActive, false).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled == 0 {
			return Forbidden("Only enrolled students can review this course!")
		}
		var existing int64
		if err := tx.Model(&course.CourseReview{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return Conflict("ALREADY_REVIEWED", "You have already reviewed this course!")
		}
		return tx.Create(&r).Error
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListApproved lists the approved reviews of a course.
func (s *ReviewService) ListApproved(ctx context.Context, courseID uint, p Page) (Paged[course.CourseReview], error) {
	q := s.db.WithContext(ctx).Model(&course.CourseReview{}).
		Where("course_id = ? AND status = ?", courseID, course.ReviewStatusApproved)
	page, err := paginate[course.CourseReview](q, p, "created_at DESC", "User")
	for _, r := range page.Items {
		if r.User != nil {
			r.User.Email = ""
			r.User.Mobile = ""
			r.User.MainBalance = 0
		}
	}
	return page, err
}

// Moderate approves or rejects a review.
func (s *ReviewService) Moderate(ctx context.Context, actor Actor, reviewID uint, approve bool) (*course.CourseReview, error) {
	if !actor.IsAdmin() {
		return nil, Forbidden("Only admins can moderate reviews!")
	}
	var r course.CourseReview
	db := s.db.WithContext(ctx)
	if err := db.First(&r, reviewID).Error; err != nil {
		return nil, notFoundOr(err, "Review")
	}
	r.Status = course.ReviewStatusRejected
	if approve {
		r.Status = course.ReviewStatusApproved
	}
	if err := db.Model(&r).Update("status", r.Status).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

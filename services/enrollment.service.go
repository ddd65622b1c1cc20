package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lingo/authoring"
	"lingo/codec"
	"lingo/logger"
	"lingo/models/course"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	db      *gorm.DB
	log     *logger.Logger
	payment PaymentGateway
}

func NewEnrollmentService(db *gorm.DB, log *logger.Logger, payment PaymentGateway) *EnrollmentService {
	return &EnrollmentService{db: db, log: log.With("service", "enrollments"), payment: payment}
}

// Enroll gives userID access to the course of a public version. A free version enrolls
// directly; otherwise the payment gateway must charge the (discounted) price first.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, versionID uint, discountCode string) (*course.Enrollment, error) {
	var e course.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadVersion(tx, versionID)
		if err != nil {
			return err
		}
		if v.Status != course.StatusPublic {
			return Conflict("NOT_PUBLIC", "Only published versions can be purchased!")
		}
		var c course.Course
		if err := forUpdate(tx).Where("id = ? AND is_deleted = ?", v.CourseID, false).First(&c).Error; err != nil {
			return notFoundOr(err, "Course")
		}

		var active int64
		if err := tx.Model(&course.Enrollment{}).
			Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, c.ID, course.EnrollmentActive, false).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return Conflict("ALREADY_ENROLLED", "You are already enrolled in this course!")
		}

		price := c.BasePrice
		if v.Price != nil {
			price = *v.Price
		}
		e = course.Enrollment{
			UserID:          userID,
			CourseID:        c.ID,
			CourseVersionID: v.ID,
			Status:          course.EnrollmentActive,
			EnrolledAt:      now(),
		}
		if code := strings.TrimSpace(discountCode); code != "" && price > 0 {
			d, err := redeemable(tx, v.ID, code, e.EnrolledAt)
			if err != nil {
				return err
			}
			price = authoring.DiscountedPrice(price, d.Percentage)
			e.DiscountCode = d.Code
		}
		e.PricePaid = price

		if price > 0 {
			if s.payment == nil {
				return ErrPayment
			}
			paymentID, err := s.payment.Charge(ctx, tx, PaymentRequest{
				UserID:        userID,
				Amount:        price,
				ReferenceType: "course_version",
				ReferenceID:   v.ID,
				ReferenceName: fmt.Sprintf("%s v%d", c.Title, v.VersionNumber),
			})
			if err != nil {
				var serr *Error
				if errors.As(err, &serr) {
					return err
				}
				s.log.Error("payment failed", "userId", userID, "versionId", v.ID, "error", err)
				return ErrPayment
			}
			e.PaymentID = paymentID
		}
		return tx.Create(&e).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user enrolled", "userId", userID, "courseId", e.CourseID, "versionId", versionID, "pricePaid", e.PricePaid)
	return &e, nil
}

// ActiveEnrollment returns the user's active enrollment in a course, or nil.
func (s *EnrollmentService) ActiveEnrollment(ctx context.Context, userID, courseID uint) (*course.Enrollment, error) {
	var e course.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = ?", userID, courseID, course.EnrollmentActive, false).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Cancel ends an active enrollment. No refund is issued.
func (s *EnrollmentService) Cancel(ctx context.Context, userID, enrollmentID uint) error {
	res := s.db.WithContext(ctx).Model(&course.Enrollment{}).
		Where("id = ? AND user_id = ? AND status = ?", enrollmentID, userID, course.EnrollmentActive).
		Update("status", course.EnrollmentCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFound("Enrollment")
	}
	return nil
}

// ListForUser lists the user's enrollments with their courses.
func (s *EnrollmentService) ListForUser(ctx context.Context, userID uint, p Page) (Paged[course.Enrollment], error) {
	q := s.db.WithContext(ctx).Model(&course.Enrollment{}).Where("user_id = ? AND is_deleted = ?", userID, false)
	return paginate[course.Enrollment](q, p, "enrolled_at DESC", "Course")
}

// StudentQuestion is a question as shown to a student: answers are never included.
type StudentQuestion struct {
	ID         uint               `json:"id"`
	Text       string             `json:"text"`
	Type       codec.QuestionType `json:"type"`
	Prompt     codec.Prompt       `json:"prompt"`
	Transcript string             `json:"transcript"`
	MediaURL   string             `json:"mediaUrl"`
	Weight     int                `json:"weight"`
	OrderIndex int                `json:"orderIndex"`
}

// StudentLesson is a lesson opened through the access gate.
type StudentLesson struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	LessonType      string            `json:"lessonType"`
	IsFree          bool              `json:"isFree"`
	DurationSeconds int               `json:"durationSeconds"`
	ThumbnailURL    string            `json:"thumbnailUrl"`
	ContentURL      string            `json:"contentUrl"`
	Questions       []StudentQuestion `json:"questions"`
}

func studentView(l *authoring.Lesson) *StudentLesson {
	out := &StudentLesson{
		ID:              l.ID,
		Title:           l.Title,
		LessonType:      l.LessonType,
		IsFree:          l.IsFree,
		DurationSeconds: l.DurationSeconds,
		ThumbnailURL:    l.ThumbnailURL,
		ContentURL:      l.ContentURL,
		Questions:       make([]StudentQuestion, 0, len(l.Questions)),
	}
	for _, q := range l.Questions {
		out.Questions = append(out.Questions, StudentQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       q.Type(),
			Prompt:     codec.PromptFor(q.Body),
			Transcript: q.Transcript,
			MediaURL:   q.MediaURL,
			Weight:     q.Weight,
			OrderIndex: q.OrderIndex,
		})
	}
	return out
}

var ErrLessonLocked = Forbidden("Enroll in this course to open this lesson!")

// openLesson checks the access gate for a lesson of a public version and returns the
// aggregate. Standalone lessons are always open.
func (s *EnrollmentService) openLesson(ctx context.Context, userID, versionID, lessonID uint) (*authoring.Lesson, error) {
	db := s.db.WithContext(ctx)
	var lesson course.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&lesson).Error; err != nil {
		return nil, notFoundOr(err, "Lesson")
	}
	if lesson.CourseID == nil {
		return loadLesson(db, lessonID)
	}

	if versionID == 0 {
		return nil, BadRequest("Course version is required!")
	}
	var v course.CourseVersion
	if err := db.Where("id = ? AND is_deleted = ?", versionID, false).First(&v).Error; err != nil {
		return nil, notFoundOr(err, "Course version")
	}
	if v.Status != course.StatusPublic {
		return nil, NotFound("Course version")
	}
	var link int64
	if err := db.Model(&course.VersionLesson{}).
		Where("course_version_id = ? AND lesson_id = ?", versionID, lessonID).
		Count(&link).Error; err != nil {
		return nil, err
	}
	if link == 0 {
		return nil, NotFound("Lesson in this version")
	}

	enrollment, err := s.ActiveEnrollment(ctx, userID, v.CourseID)
	if err != nil {
		return nil, err
	}
	if !authoring.CanAccessLesson(&lesson, &v, enrollment) {
		return nil, ErrLessonLocked
	}
	return loadLesson(db, lessonID)
}

// AccessLesson opens a lesson for a student.
func (s *EnrollmentService) AccessLesson(ctx context.Context, userID, versionID, lessonID uint) (*StudentLesson, error) {
	l, err := s.openLesson(ctx, userID, versionID, lessonID)
	if err != nil {
		return nil, err
	}
	return studentView(l), nil
}

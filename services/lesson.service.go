package services

import (
	"context"
	"errors"
	"strings"

	"lingo/authoring"
	"lingo/logger"
	"lingo/models/course"

	"gorm.io/gorm"
)

type LessonService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonService(db *gorm.DB, log *logger.Logger) *LessonService {
	return &LessonService{db: db, log: log.With("service", "lessons")}
}

// CreateLesson creates a lesson with its questions and appends it to a draft version in
// a single transaction.
func (s *LessonService) CreateLesson(ctx context.Context, actor Actor, versionID uint, l *authoring.Lesson, expectedRevision *int) (*authoring.Lesson, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadDraft(tx, actor, versionID, expectedRevision)
		if err != nil {
			return err
		}
		l.CourseID = &v.CourseID
		if err := createLesson(tx, actor, l); err != nil {
			return err
		}
		link := course.VersionLesson{CourseVersionID: v.ID, LessonID: l.ID, OrderIndex: len(v.Lessons)}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		l.OrderIndex = link.OrderIndex
		if err := touch(tx, v); err != nil {
			return err
		}
		return writeHistory(tx, v.ID, course.ActionLessonAdded, actor, "", map[string]interface{}{"lessonId": l.ID, "title": l.Title})
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("lesson created", "versionId", versionID, "lessonId", l.ID, "questions", len(l.Questions))
	return l, nil
}

// CreateStandalone creates a practice lesson that belongs to no course.
func (s *LessonService) CreateStandalone(ctx context.Context, actor Actor, l *authoring.Lesson) (*authoring.Lesson, error) {
	l.CourseID = nil
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createLesson(tx, actor, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func createLesson(tx *gorm.DB, actor Actor, l *authoring.Lesson) error {
	m := lessonRow(l)
	m.CreatedBy = actor.ID
	if err := tx.Create(&m).Error; err != nil {
		return err
	}
	l.ID = m.ID
	for _, q := range l.Questions {
		q.ID = 0
	}
	if err := writeQuestions(tx, l); err != nil {
		return err
	}
	l.Saved()
	return nil
}

func lessonRow(l *authoring.Lesson) course.Lesson {
	lessonType := l.LessonType
	if lessonType == "" {
		lessonType = course.LessonQuiz
	}
	return course.Lesson{
		CourseID:        l.CourseID,
		Title:           strings.TrimSpace(l.Title),
		LessonType:      lessonType,
		IsFree:          l.IsFree,
		DurationSeconds: l.DurationSeconds,
		ThumbnailURL:    l.ThumbnailURL,
		ContentURL:      l.ContentURL,
	}
}

// writeQuestions persists the aggregate's questions with their current order and
// soft-deletes the ones removed from it.
func writeQuestions(tx *gorm.DB, l *authoring.Lesson) error {
	if deletes := l.PendingDeletes(); len(deletes) > 0 {
		if err := tx.Model(&course.Question{}).
			Where("lesson_id = ? AND id IN ?", l.ID, deletes).
			Update("is_deleted", true).Error; err != nil {
			return err
		}
	}
	for i, row := range l.Encode() {
		if row.ID == 0 {
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			l.Questions[i].ID = row.ID
			continue
		}
		res := tx.Model(&course.Question{}).
			Where("id = ? AND lesson_id = ? AND is_deleted = ?", row.ID, l.ID, false).
			Updates(map[string]interface{}{
				"text":           row.Text,
				"question_type":  row.QuestionType,
				"options":        row.OptionsPayload,
				"correct_answer": row.AnswerPayload,
				"transcript":     row.Transcript,
				"explanation":    row.Explanation,
				"weight":         row.Weight,
				"order_index":    row.OrderIndex,
				"media_url":      row.MediaURL,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFound("Question")
		}
	}
	return nil
}

// Load reads a lesson aggregate with its questions decoded.
func (s *LessonService) Load(ctx context.Context, lessonID uint) (*authoring.Lesson, error) {
	return loadLesson(s.db.WithContext(ctx), lessonID)
}

func loadLesson(tx *gorm.DB, lessonID uint) (*authoring.Lesson, error) {
	var m course.Lesson
	if err := tx.Where("id = ? AND is_deleted = ?", lessonID, false).First(&m).Error; err != nil {
		return nil, notFoundOr(err, "Lesson")
	}
	var questions []course.Question
	if err := tx.Where("lesson_id = ? AND is_deleted = ?", lessonID, false).Find(&questions).Error; err != nil {
		return nil, err
	}
	return authoring.LessonFromModel(m, questions), nil
}

// Save writes an edited aggregate. With a version id the lesson is edited inside that
// draft: a lesson still shared with other versions is copied first, so published
// content never changes. Without one the lesson must be standalone.
func (s *LessonService) Save(ctx context.Context, actor Actor, versionID *uint, l *authoring.Lesson, expectedRevision *int) (*authoring.Lesson, error) {
	copied := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current course.Lesson
		if err := tx.Where("id = ? AND is_deleted = ?", l.ID, false).First(&current).Error; err != nil {
			return notFoundOr(err, "Lesson")
		}

		if versionID == nil {
			if current.CourseID != nil {
				return Conflict("COURSE_LESSON", "This lesson belongs to a course, edit it through a draft version!")
			}
			if !actor.IsAdmin() && current.CreatedBy != actor.ID {
				return Forbidden("You are not the author of this lesson!")
			}
			return updateLesson(tx, l)
		}

		v, err := loadDraft(tx, actor, *versionID, expectedRevision)
		if err != nil {
			return err
		}
		var link course.VersionLesson
		if err := tx.Where("course_version_id = ? AND lesson_id = ?", v.ID, l.ID).First(&link).Error; err != nil {
			return notFoundOr(err, "Lesson in this version")
		}

		var shared int64
		if err := tx.Model(&course.VersionLesson{}).
			Where("lesson_id = ? AND course_version_id <> ?", l.ID, v.ID).
			Count(&shared).Error; err != nil {
			return err
		}

		previousID := l.ID
		if shared > 0 {
			l.Saved()
			l.CourseID = &v.CourseID
			if err := createLesson(tx, actor, l); err != nil {
				return err
			}
			if err := tx.Model(&link).Update("lesson_id", l.ID).Error; err != nil {
				return err
			}
			copied = true
		} else if err := updateLesson(tx, l); err != nil {
			return err
		}
		l.OrderIndex = link.OrderIndex

		if err := touch(tx, v); err != nil {
			return err
		}
		metadata := map[string]interface{}{"lessonId": l.ID}
		if copied {
			metadata["copiedFrom"] = previousID
		}
		return writeHistory(tx, v.ID, course.ActionLessonUpdated, actor, "", metadata)
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("lesson saved", "lessonId", l.ID, "copied", copied)
	return l, nil
}

func updateLesson(tx *gorm.DB, l *authoring.Lesson) error {
	row := lessonRow(l)
	if err := tx.Model(&course.Lesson{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"title":            row.Title,
		"lesson_type":      row.LessonType,
		"is_free":          row.IsFree,
		"duration_seconds": row.DurationSeconds,
		"thumbnail_url":    row.ThumbnailURL,
		"content_url":      row.ContentURL,
	}).Error; err != nil {
		return err
	}
	if err := writeQuestions(tx, l); err != nil {
		return err
	}
	l.Saved()
	return nil
}

// Edit loads a lesson, applies fn to the aggregate and saves it.
func (s *LessonService) Edit(ctx context.Context, actor Actor, versionID *uint, lessonID uint, expectedRevision *int, fn func(l *authoring.Lesson) error) (*authoring.Lesson, error) {
	l, err := s.Load(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := fn(l); err != nil {
		var verrs ValidationErrors
		var serr *Error
		if errors.As(err, &verrs) || errors.As(err, &serr) {
			return nil, err
		}
		return nil, BadRequest(err.Error())
	}
	return s.Save(ctx, actor, versionID, l, expectedRevision)
}

// Unlink removes a lesson from a draft and closes the gap in the order. A lesson no
// longer referenced by any version is soft-deleted.
func (s *LessonService) Unlink(ctx context.Context, actor Actor, versionID, lessonID uint, expectedRevision *int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadDraft(tx, actor, versionID, expectedRevision)
		if err != nil {
			return err
		}
		res := tx.Where("course_version_id = ? AND lesson_id = ?", v.ID, lessonID).Delete(&course.VersionLesson{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return NotFound("Lesson in this version")
		}

		remaining := make([]uint, 0, len(v.Lessons))
		for _, link := range v.Lessons {
			if link.LessonID != lessonID {
				remaining = append(remaining, link.LessonID)
			}
		}
		if err := setLessonOrder(tx, v.ID, remaining); err != nil {
			return err
		}

		var refs int64
		if err := tx.Model(&course.VersionLesson{}).Where("lesson_id = ?", lessonID).Count(&refs).Error; err != nil {
			return err
		}
		if refs == 0 {
			if err := tx.Model(&course.Lesson{}).Where("id = ?", lessonID).Update("is_deleted", true).Error; err != nil {
				return err
			}
		}
		if err := touch(tx, v); err != nil {
			return err
		}
		return writeHistory(tx, v.ID, course.ActionLessonRemoved, actor, "", map[string]interface{}{"lessonId": lessonID})
	})
}

// Reorder sets the order of a draft's lessons. lessonIDs must list every linked lesson
// exactly once.
func (s *LessonService) Reorder(ctx context.Context, actor Actor, versionID uint, lessonIDs []uint, expectedRevision *int) (*course.CourseVersion, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadDraft(tx, actor, versionID, expectedRevision)
		if err != nil {
			return err
		}
		linked := make(map[uint]bool, len(v.Lessons))
		for _, link := range v.Lessons {
			linked[link.LessonID] = true
		}
		seen := make(map[uint]bool, len(lessonIDs))
		for _, id := range lessonIDs {
			if !linked[id] || seen[id] {
				return BadRequest("Lesson order must list every lesson of the version exactly once!")
			}
			seen[id] = true
		}
		if len(seen) != len(linked) {
			return BadRequest("Lesson order must list every lesson of the version exactly once!")
		}
		if err := setLessonOrder(tx, v.ID, lessonIDs); err != nil {
			return err
		}
		if err := touch(tx, v); err != nil {
			return err
		}
		return writeHistory(tx, v.ID, course.ActionUpdated, actor, "", map[string]interface{}{"lessonOrder": lessonIDs})
	})
	if err != nil {
		return nil, err
	}
	var v course.CourseVersion
	err = s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&v, versionID).Error
	return &v, err
}

func setLessonOrder(tx *gorm.DB, versionID uint, lessonIDs []uint) error {
	for i, id := range lessonIDs {
		if err := tx.Model(&course.VersionLesson{}).
			Where("course_version_id = ? AND lesson_id = ?", versionID, id).
			Update("order_index", i).Error; err != nil {
			return err
		}
	}
	return nil
}

// StandaloneLessons lists practice lessons, optionally only those of one creator.
func (s *LessonService) StandaloneLessons(ctx context.Context, creatorID uint, p Page) (Paged[course.Lesson], error) {
	q := s.db.WithContext(ctx).Model(&course.Lesson{}).Where("course_id IS NULL AND is_deleted = ?", false)
	if creatorID != 0 {
		q = q.Where("created_by = ?", creatorID)
	}
	return paginate[course.Lesson](q, p, "created_at DESC")
}

// Authorize checks that actor may see the authoring view of a lesson: through a version
// of a course they author, or as the creator of a standalone lesson.
func (s *LessonService) Authorize(ctx context.Context, actor Actor, versionID *uint, lessonID uint) error {
	db := s.db.WithContext(ctx)
	if versionID != nil {
		var v course.CourseVersion
		if err := db.Select("id", "course_id").Where("id = ? AND is_deleted = ?", *versionID, false).First(&v).Error; err != nil {
			return notFoundOr(err, "Course version")
		}
		if _, err := loadCourse(db, actor, v.CourseID, false); err != nil {
			return err
		}
		var link int64
		if err := db.Model(&course.VersionLesson{}).
			Where("course_version_id = ? AND lesson_id = ?", v.ID, lessonID).
			Count(&link).Error; err != nil {
			return err
		}
		if link == 0 {
			return NotFound("Lesson in this version")
		}
		return nil
	}

	var l course.Lesson
	if err := db.Where("id = ? AND is_deleted = ?", lessonID, false).First(&l).Error; err != nil {
		return notFoundOr(err, "Lesson")
	}
	if l.CourseID != nil {
		return Conflict("COURSE_LESSON", "This lesson belongs to a course, open it through a version!")
	}
	if !actor.IsAdmin() && l.CreatedBy != actor.ID {
		return Forbidden("You are not the author of this lesson!")
	}
	return nil
}

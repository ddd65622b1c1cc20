// Package services implements the authoring workflows on top of gorm. Every method runs
// its queries with the caller's context; multi-step changes run in one transaction.
package services

import (
	"encoding/json"
	"time"

	"lingo/database"
	"lingo/logger"
	"lingo/models"
	"lingo/models/course"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

func (a Actor) historyType() string {
	if a.IsAdmin() {
		return course.ActorAdmin
	}
	return course.ActorCreator
}

// Page selects a slice of a listing. Page starts at 1.
type Page struct {
	Page int
	Size int
}

const maxPageSize = 100

// Normalized applies the default and maximum page size.
func (p Page) Normalized() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = 10
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalized()
	return (p.Page - 1) * p.Size
}

// Paged is one page of a listing.
type Paged[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

func paginate[T any](q *gorm.DB, p Page, order string, preloads ...string) (Paged[T], error) {
	p = p.Normalized()
	out := Paged[T]{Items: []T{}, Page: p.Page, Size: p.Size}
	base := q.Session(&gorm.Session{})
	if err := base.Count(&out.Total).Error; err != nil {
		return out, err
	}
	find := base.Order(order).Offset(p.Offset()).Limit(p.Size)
	for _, name := range preloads {
		find = find.Preload(name)
	}
	err := find.Find(&out.Items).Error
	return out, err
}

// Services bundles every service the HTTP layer needs.
type Services struct {
	Versions    *VersionService
	Lessons     *LessonService
	Discounts   *DiscountService
	Enrollments *EnrollmentService
	Attempts    *AttemptService
	Reviews     *ReviewService
	Wallet      *WalletService
}

// App holds the services used by the HTTP handlers. It is set once at startup.
var App *Services

// New wires the services over db. moderation may be nil.
func New(db *gorm.DB, log *logger.Logger, moderation Moderator) *Services {
	wallet := NewWalletService(db, log)
	enrollments := NewEnrollmentService(db, log, wallet)
	return &Services{
		Versions:    NewVersionService(db, log, moderation),
		Lessons:     NewLessonService(db, log),
		Discounts:   NewDiscountService(db, log),
		Enrollments: enrollments,
		Attempts:    NewAttemptService(db, log, enrollments),
		Reviews:     NewReviewService(db, log),
		Wallet:      wallet,
	}
}

// forUpdate locks the selected rows where the dialect supports it.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if database.LocksRows(tx) {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func writeHistory(tx *gorm.DB, versionID uint, action string, actor Actor, comments string, metadata map[string]interface{}) error {
	h := course.VersionHistory{
		CourseVersionID: versionID,
		Action:          action,
		ActorID:         actor.ID,
		ActorType:       actor.historyType(),
		Comments:        comments,
	}
	if actor.ID == 0 {
		h.ActorType = course.ActorSystem
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		h.Metadata = datatypes.JSON(raw)
	}
	return tx.Create(&h).Error
}

func checkRevision(v *course.CourseVersion, expected *int) error {
	if expected != nil && *expected != v.Revision {
		return ErrStaleRevision
	}
	return nil
}

// loadCourse fetches a non-deleted course and checks that actor may author it.
func loadCourse(tx *gorm.DB, actor Actor, courseID uint, lock bool) (*course.Course, error) {
	q := tx
	if lock {
		q = forUpdate(tx)
	}
	var c course.Course
	if err := q.Where("id = ? AND is_deleted = ?", courseID, false).First(&c).Error; err != nil {
		return nil, notFoundOr(err, "Course")
	}
	if !actor.IsAdmin() && c.CreatorID != actor.ID {
		return nil, Forbidden("You are not the author of this course!")
	}
	return &c, nil
}

// loadDraft fetches a version the actor may author and ensures it is still a draft.
// The owning course row is locked before the version is read, so concurrent publishes
// see each other's status change.
func loadDraft(tx *gorm.DB, actor Actor, versionID uint, expected *int) (*course.CourseVersion, error) {
	var courseIDs []uint
	if err := tx.Model(&course.CourseVersion{}).
		Where("id = ? AND is_deleted = ?", versionID, false).
		Pluck("course_id", &courseIDs).Error; err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return nil, NotFound("Course version")
	}
	if _, err := loadCourse(tx, actor, courseIDs[0], true); err != nil {
		return nil, err
	}
	v, err := loadVersion(tx, versionID)
	if err != nil {
		return nil, err
	}
	if v.Status != course.StatusDraft {
		return nil, ErrNotDraft
	}
	if err := checkRevision(v, expected); err != nil {
		return nil, err
	}
	return v, nil
}

func loadVersion(tx *gorm.DB, versionID uint) (*course.CourseVersion, error) {
	var v course.CourseVersion
	err := tx.Where("id = ? AND is_deleted = ?", versionID, false).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&v).Error
	if err != nil {
		return nil, notFoundOr(err, "Course version")
	}
	return &v, nil
}

// touch bumps the draft's revision after an edit.
func touch(tx *gorm.DB, v *course.CourseVersion) error {
	res := tx.Model(&course.CourseVersion{}).
		Where("id = ? AND revision = ?", v.ID, v.Revision).
		Update("revision", v.Revision+1)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleRevision
	}
	v.Revision++
	return nil
}

var now = func() time.Time { return time.Now().UTC() }

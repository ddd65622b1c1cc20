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

// Moderator receives published versions for review. Its decision comes back through
// VersionService.Moderate.
type Moderator interface {
	SubmitForReview(ctx context.Context, req ReviewRequest) error
}

type ReviewRequest struct {
	CourseID      uint   `json:"courseId"`
	VersionID     uint   `json:"versionId"`
	VersionNumber int    `json:"versionNumber"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Reason        string `json:"reasonForChange"`
}

type VersionService struct {
	db         *gorm.DB
	log        *logger.Logger
	moderation Moderator
	// submitted is called after a moderation request finished, for tests.
	submitted func(err error)
}

func NewVersionService(db *gorm.DB, log *logger.Logger, moderation Moderator) *VersionService {
	return &VersionService{db: db, log: log.With("service", "versions"), moderation: moderation}
}

type CourseInput struct {
	Title     string
	BasePrice float64
}

// CreateCourse creates a course together with its first, empty draft.
func (s *VersionService) CreateCourse(ctx context.Context, actor Actor, in CourseInput) (*course.Course, error) {
	c := course.Course{
		Title:          strings.TrimSpace(in.Title),
		BasePrice:      in.BasePrice,
		CreatorID:      actor.ID,
		ApprovalStatus: course.ApprovalPending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		v := course.CourseVersion{
			CourseID:      c.ID,
			VersionNumber: 1,
			Status:        course.StatusDraft,
			CreatedBy:     actor.ID,
		}
		if err := tx.Create(&v).Error; err != nil {
			return err
		}
		c.Versions = []course.CourseVersion{v}
		return writeHistory(tx, v.ID, course.ActionCreated, actor, "", nil)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("course created", "courseId", c.ID, "creatorId", actor.ID)
	return &c, nil
}

// CreateDraft returns the course's draft, forking one from the current public version
// when none exists. Forking copies metadata and lesson links; lessons are shared until
// edited.
func (s *VersionService) CreateDraft(ctx context.Context, actor Actor, courseID uint) (*course.CourseVersion, error) {
	var draft course.CourseVersion
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := loadCourse(tx, actor, courseID, true); err != nil {
			return err
		}

		err := tx.Where("course_id = ? AND status = ? AND is_deleted = ?", courseID, course.StatusDraft, false).First(&draft).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var maxNumber int
		if err := tx.Model(&course.CourseVersion{}).Where("course_id = ?", courseID).
			Select("COALESCE(MAX(version_number), 0)").Scan(&maxNumber).Error; err != nil {
			return err
		}

		draft = course.CourseVersion{
			CourseID:      courseID,
			VersionNumber: maxNumber + 1,
			Status:        course.StatusDraft,
			CreatedBy:     actor.ID,
		}

		var public course.CourseVersion
		err = tx.Where("course_id = ? AND status = ? AND is_deleted = ?", courseID, course.StatusPublic, false).
			Preload("Lessons").First(&public).Error
		hasPublic := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if hasPublic {
			draft.Description = public.Description
			draft.ThumbnailURL = public.ThumbnailURL
			draft.Price = public.Price
			draft.Level = public.Level
			draft.LanguageCode = public.LanguageCode
			draft.InstructionLanguageCode = public.InstructionLanguageCode
		}
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}

		metadata := map[string]interface{}{"versionNumber": draft.VersionNumber}
		if hasPublic {
			for _, link := range public.Lessons {
				fork := course.VersionLesson{CourseVersionID: draft.ID, LessonID: link.LessonID, OrderIndex: link.OrderIndex}
				if err := tx.Create(&fork).Error; err != nil {
					return err
				}
			}
			metadata["forkedFrom"] = public.ID
		}
		created = true
		return writeHistory(tx, draft.ID, course.ActionCreated, actor, "", metadata)
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("draft created", "courseId", courseID, "versionId", draft.ID, "versionNumber", draft.VersionNumber)
	}
	return s.Get(ctx, draft.ID)
}

// VersionInput holds the metadata edits of a draft. Nil fields are left unchanged.
type VersionInput struct {
	Description             *string
	ThumbnailURL            *string
	Price                   *float64
	ClearPrice              bool
	Level                   *string
	LanguageCode            *string
	InstructionLanguageCode *string
	ExpectedRevision        *int
}

// UpdateDraft applies metadata edits to a draft version.
func (s *VersionService) UpdateDraft(ctx context.Context, actor Actor, versionID uint, in VersionInput) (*course.CourseVersion, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadDraft(tx, actor, versionID, in.ExpectedRevision)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		changed := []string{}
		set := func(column string, value interface{}) {
			updates[column] = value
			changed = append(changed, column)
		}
		if in.Description != nil {
			set("description", strings.TrimSpace(*in.Description))
		}
		if in.ThumbnailURL != nil {
			set("thumbnail_url", strings.TrimSpace(*in.ThumbnailURL))
		}
		if in.ClearPrice {
			set("price", nil)
		} else if in.Price != nil {
			set("price", *in.Price)
		}
		if in.Level != nil {
			set("level", *in.Level)
		}
		if in.LanguageCode != nil {
			set("language_code", *in.LanguageCode)
		}
		if in.InstructionLanguageCode != nil {
			set("instruction_language_code", *in.InstructionLanguageCode)
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&course.CourseVersion{}).Where("id = ?", v.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := touch(tx, v); err != nil {
			return err
		}
		return writeHistory(tx, v.ID, course.ActionUpdated, actor, "", map[string]interface{}{"fields": changed})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, versionID)
}

// Readiness runs the publish checklist against the stored version.
func (s *VersionService) Readiness(ctx context.Context, versionID uint) ([]authoring.ValidationError, error) {
	v, err := loadVersion(s.db.WithContext(ctx), versionID)
	if err != nil {
		return nil, err
	}
	return authoring.ValidateReadiness(v), nil
}

// Publish promotes a draft to PUBLIC. The previous public version is archived, the course
// goes back to pending approval and the moderation service is notified after commit.
func (s *VersionService) Publish(ctx context.Context, actor Actor, versionID uint, reason string, expectedRevision *int) (*course.CourseVersion, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ValidationErrors{{Field: "reasonForChange", Message: "Reason for change is required!"}}
	}

	var (
		v          *course.CourseVersion
		c          *course.Course
		archivedID uint
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if v, err = loadDraft(tx, actor, versionID, expectedRevision); err != nil {
			return err
		}
		if errs := authoring.ValidateReadiness(v); len(errs) > 0 {
			return ValidationErrors(errs)
		}
		if c, err = loadCourse(tx, actor, v.CourseID, false); err != nil {
			return err
		}

		var previous []course.CourseVersion
		if err := tx.Where("course_id = ? AND status = ? AND id <> ?", v.CourseID, course.StatusPublic, v.ID).Find(&previous).Error; err != nil {
			return err
		}
		at := now()
		for i := range previous {
			p := &previous[i]
			if err := authoring.Transition(p, course.StatusArchived); err != nil {
				return err
			}
			if err := tx.Model(p).Updates(map[string]interface{}{"status": p.Status, "archived_at": at}).Error; err != nil {
				return err
			}
			if err := writeHistory(tx, p.ID, course.ActionArchived, actor, "", map[string]interface{}{"supersededBy": v.ID}); err != nil {
				return err
			}
			archivedID = p.ID
		}

		if err := authoring.Transition(v, course.StatusPublic); err != nil {
			return err
		}
		v.ReasonForChange = reason
		v.PublishedAt = &at
		res := tx.Model(&course.CourseVersion{}).
			Where("id = ? AND status = ? AND revision = ?", v.ID, course.StatusDraft, v.Revision).
			Updates(map[string]interface{}{
				"status":            v.Status,
				"reason_for_change": v.ReasonForChange,
				"published_at":      at,
				"revision":          v.Revision + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleRevision
		}
		v.Revision++

		c.LatestPublicVersionID = &v.ID
		c.ApprovalStatus = course.ApprovalPending
		if err := tx.Model(&course.Course{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
			"latest_public_version_id": v.ID,
			"approval_status":          c.ApprovalStatus,
		}).Error; err != nil {
			return err
		}

		metadata := map[string]interface{}{"versionNumber": v.VersionNumber}
		if archivedID != 0 {
			metadata["archived"] = archivedID
		}
		return writeHistory(tx, v.ID, course.ActionPublished, actor, reason, metadata)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("version published", "courseId", v.CourseID, "versionId", v.ID, "archived", archivedID)
	if s.moderation != nil {
		req := ReviewRequest{
			CourseID:      c.ID,
			VersionID:     v.ID,
			VersionNumber: v.VersionNumber,
			Title:         c.Title,
			Description:   v.Description,
			Reason:        reason,
		}
		go s.submitForReview(context.WithoutCancel(ctx), req)
	}
	return s.Get(ctx, v.ID)
}

func (s *VersionService) submitForReview(ctx context.Context, req ReviewRequest) {
	err := s.moderation.SubmitForReview(ctx, req)
	if err != nil {
		s.log.Error("moderation request failed", "versionId", req.VersionID, "error", err)
	}
	if s.submitted != nil {
		s.submitted(err)
	}
}

// ModerationResult is what Moderate changed, for notifying the creator.
type ModerationResult struct {
	Version *course.CourseVersion `json:"version"`
	Course  *course.Course        `json:"course"`
}

// Moderate records the moderation decision on a public version. Approving keeps it
// PUBLIC and approves the course; rejecting makes it REJECTED and unpublishes the course.
func (s *VersionService) Moderate(ctx context.Context, actor Actor, versionID uint, approve bool, comments string) (*ModerationResult, error) {
	if !actor.IsAdmin() {
		return nil, Forbidden("Only admins can moderate courses!")
	}
	res := &ModerationResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadVersion(tx, versionID)
		if err != nil {
			return err
		}
		c, err := loadCourse(tx, actor, v.CourseID, true)
		if err != nil {
			return err
		}

		to, action, approval := course.StatusPublic, course.ActionApproved, course.ApprovalApproved
		if !approve {
			to, action, approval = course.StatusRejected, course.ActionRejected, course.ApprovalRejected
		}
		if v.Status != course.StatusPublic {
			return Conflict("INVALID_TRANSITION", "Only public versions can be moderated!")
		}
		if err := authoring.Transition(v, to); err != nil {
			return err
		}
		if err := tx.Model(&course.CourseVersion{}).Where("id = ?", v.ID).Update("status", v.Status).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{"approval_status": approval}
		c.ApprovalStatus = approval
		if !approve && c.LatestPublicVersionID != nil && *c.LatestPublicVersionID == v.ID {
			updates["latest_public_version_id"] = nil
			c.LatestPublicVersionID = nil
		}
		if err := tx.Model(&course.Course{}).Where("id = ?", c.ID).Updates(updates).Error; err != nil {
			return err
		}
		res.Version, res.Course = v, c
		return writeHistory(tx, v.ID, action, actor, strings.TrimSpace(comments), nil)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("version moderated", "versionId", versionID, "approved", approve)
	return res, nil
}

// Get returns a version with its ordered lesson links and lessons.
func (s *VersionService) Get(ctx context.Context, versionID uint) (*course.CourseVersion, error) {
	var v course.CourseVersion
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", versionID, false).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Lessons.Lesson").
		First(&v).Error
	if err != nil {
		return nil, notFoundOr(err, "Course version")
	}
	return &v, nil
}

// List returns every version of a course, newest first.
func (s *VersionService) List(ctx context.Context, courseID uint) ([]course.CourseVersion, error) {
	versions := []course.CourseVersion{}
	err := s.db.WithContext(ctx).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("version_number DESC").
		Find(&versions).Error
	return versions, err
}

// History returns the audit log of a version, oldest first.
func (s *VersionService) History(ctx context.Context, versionID uint) ([]course.VersionHistory, error) {
	history := []course.VersionHistory{}
	err := s.db.WithContext(ctx).
		Where("course_version_id = ?", versionID).
		Order("id ASC").
		Find(&history).Error
	return history, err
}

// GetCourse returns a course with its latest public version.
func (s *VersionService) GetCourse(ctx context.Context, courseID uint) (*course.Course, error) {
	var c course.Course
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Preload("LatestPublicVersion").
		First(&c).Error
	if err != nil {
		return nil, notFoundOr(err, "Course")
	}
	return &c, nil
}

// Catalogue lists courses that have a public version and were not rejected.
func (s *VersionService) Catalogue(ctx context.Context, p Page) (Paged[course.Course], error) {
	q := s.db.WithContext(ctx).Model(&course.Course{}).
		Where("is_deleted = ? AND latest_public_version_id IS NOT NULL AND approval_status <> ?", false, course.ApprovalRejected)
	return paginate[course.Course](q, p, "created_at DESC", "LatestPublicVersion")
}

// CreatorCourses lists the courses authored by actor.
func (s *VersionService) CreatorCourses(ctx context.Context, actor Actor, p Page) (Paged[course.Course], error) {
	q := s.db.WithContext(ctx).Model(&course.Course{}).
		Where("is_deleted = ? AND creator_id = ?", false, actor.ID)
	return paginate[course.Course](q, p, "created_at DESC")
}

// AuthorizeCourse checks that actor may author the course.
func (s *VersionService) AuthorizeCourse(ctx context.Context, actor Actor, courseID uint) error {
	_, err := loadCourse(s.db.WithContext(ctx), actor, courseID, false)
	return err
}

// Authorize checks that actor may author the course owning the version.
func (s *VersionService) Authorize(ctx context.Context, actor Actor, versionID uint) error {
	var v course.CourseVersion
	db := s.db.WithContext(ctx)
	if err := db.Select("id", "course_id").Where("id = ? AND is_deleted = ?", versionID, false).First(&v).Error; err != nil {
		return notFoundOr(err, "Course version")
	}
	_, err := loadCourse(db, actor, v.CourseID, false)
	return err
}

package services

import (
	"context"
	"errors"
	"time"

	"lingo/authoring"
	"lingo/logger"
	"lingo/models/course"

	"gorm.io/gorm"
)

type DiscountService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscountService(db *gorm.DB, log *logger.Logger) *DiscountService {
	return &DiscountService{db: db, log: log.With("service", "discounts")}
}

// CreateOrUpdate validates and stores a discount on a version. discountID 0 creates a
// new one. Codes are unique among the version's live discounts.
func (s *DiscountService) CreateOrUpdate(ctx context.Context, actor Actor, versionID, discountID uint, in authoring.DiscountInput) (*course.Discount, error) {
	in, errs := authoring.NormalizeDiscount(in)
	if len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	var d course.Discount
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := loadVersion(tx, versionID)
		if err != nil {
			return err
		}
		if _, err := loadCourse(tx, actor, v.CourseID, false); err != nil {
			return err
		}
		if authoring.Terminal(v.Status) {
			return Conflict("VERSION_CLOSED", "Discounts cannot be changed on an archived or rejected version!")
		}

		if discountID != 0 {
			if err := tx.Where("id = ? AND course_version_id = ? AND is_deleted = ?", discountID, versionID, false).First(&d).Error; err != nil {
				return notFoundOr(err, "Discount")
			}
		}

		var clash int64
		if err := tx.Model(&course.Discount{}).
			Where("course_version_id = ? AND code = ? AND is_deleted = ? AND id <> ?", versionID, in.Code, false, discountID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return Conflict("DUPLICATE_CODE", "A discount with this code already exists for this version!")
		}

		d.CourseVersionID = versionID
		d.Code = in.Code
		d.Percentage = in.Percentage
		d.IsActive = in.IsActive
		d.StartDate = in.StartDate.UTC()
		d.EndDate = in.EndDate.UTC()
		if discountID == 0 {
			return tx.Create(&d).Error
		}
		return tx.Model(&d).Select("code", "percentage", "is_active", "start_date", "end_date").Updates(&d).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("discount saved", "versionId", versionID, "discountId", d.ID, "code", d.Code)
	return &d, nil
}

// List returns the live discounts of a version.
func (s *DiscountService) List(ctx context.Context, versionID uint) ([]course.Discount, error) {
	discounts := []course.Discount{}
	err := s.db.WithContext(ctx).
		Where("course_version_id = ? AND is_deleted = ?", versionID, false).
		Order("start_date ASC").
		Find(&discounts).Error
	return discounts, err
}

// Delete soft-deletes a discount.
func (s *DiscountService) Delete(ctx context.Context, actor Actor, discountID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var d course.Discount
		if err := tx.Where("id = ? AND is_deleted = ?", discountID, false).First(&d).Error; err != nil {
			return notFoundOr(err, "Discount")
		}
		v, err := loadVersion(tx, d.CourseVersionID)
		if err != nil {
			return err
		}
		if _, err := loadCourse(tx, actor, v.CourseID, false); err != nil {
			return err
		}
		return tx.Model(&d).Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
	})
}

// ExpireDiscounts deactivates discounts whose window has ended.
func (s *DiscountService) ExpireDiscounts(ctx context.Context, at time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&course.Discount{}).
		Where("is_active = ? AND is_deleted = ? AND end_date <= ?", true, false, at.UTC()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("discounts expired", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// redeemable finds a live discount on versionID that applies at t.
func redeemable(tx *gorm.DB, versionID uint, code string, t time.Time) (*course.Discount, error) {
	in, _ := authoring.NormalizeDiscount(authoring.DiscountInput{Code: code})
	var d course.Discount
	err := tx.Where("course_version_id = ? AND code = ? AND is_deleted = ?", versionID, in.Code, false).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !authoring.DiscountApplies(d.IsActive, d.StartDate, d.EndDate, t)) {
		return nil, BadRequest("Discount code is not valid!")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

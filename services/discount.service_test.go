package services

import (
	"testing"
	"time"

	"lingo/authoring"
	"lingo/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(start time.Time, d time.Duration) (time.Time, time.Time) {
	return start, start.Add(d)
}

func TestDiscountCreateOrUpdate(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.readyDraft(t, 20)
	start, end := window(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), 72*time.Hour)

	d, err := f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
		Code: " launch ", Percentage: 30, StartDate: start, EndDate: end, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "LAUNCH", d.Code)

	_, err = f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
		Code: "Launch", Percentage: 10, StartDate: start, EndDate: end,
	})
	assertCode(t, err, "DUPLICATE_CODE")

	// overlapping windows are allowed
	_, err = f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
		Code: "friends", Percentage: 50, StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
	var friends course.Discount
	require.NoError(t, f.db.Where("code = ?", "FRIENDS").First(&friends).Error)
	assert.False(t, friends.IsActive)

	updated, err := f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, d.ID, authoring.DiscountInput{
		Code: "launch", Percentage: 40, StartDate: start, EndDate: end, IsActive: false,
	})
	require.NoError(t, err)
	assert.Equal(t, d.ID, updated.ID)
	assert.Equal(t, 40, updated.Percentage)
	assert.False(t, updated.IsActive)

	list, err := f.svc.Discounts.List(f.ctx, v.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, f.svc.Discounts.Delete(f.ctx, f.creator, d.ID))
	list, err = f.svc.Discounts.List(f.ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "FRIENDS", list[0].Code)

	// a deleted code can be reused
	_, err = f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
		Code: "LAUNCH", Percentage: 5, StartDate: start, EndDate: end,
	})
	require.NoError(t, err)
}

func TestInactiveDiscountIsStoredAndRejected(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.publishedCourse(t, 20)
	start, end := window(time.Now().UTC().Add(-time.Hour), 48*time.Hour)

	d, err := f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
		Code: "PAUSED", Percentage: 50, StartDate: start, EndDate: end, IsActive: false,
	})
	require.NoError(t, err)
	assert.False(t, d.IsActive)

	var stored course.Discount
	require.NoError(t, f.db.First(&stored, d.ID).Error)
	assert.False(t, stored.IsActive)

	_, err = f.svc.Enrollments.Enroll(f.ctx, f.student, v.ID, "paused")
	assertCode(t, err, "BAD_REQUEST")
}

func TestDiscountValidation(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.readyDraft(t, 20)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
		Code: "", Percentage: 100, StartDate: start, EndDate: start,
	})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, map[string]string{
		"code":       "Code is required!",
		"percentage": "Percentage must be between 1 and 99!",
		"endDate":    "End date must be after start date!",
	}, verrs.Fields())

	other := Actor{ID: f.student, Role: "STUDENT"}
	_, err = f.svc.Discounts.CreateOrUpdate(f.ctx, other, v.ID, 0, authoring.DiscountInput{
		Code: "X", Percentage: 10, StartDate: start, EndDate: start.Add(time.Hour),
	})
	assertCode(t, err, "FORBIDDEN")
}

func TestExpireDiscounts(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.readyDraft(t, 20)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, d := range []struct {
		code string
		end  time.Time
	}{
		{"OLD", start.Add(time.Hour)},
		{"NEW", start.Add(48 * time.Hour)},
	} {
		_, err := f.svc.Discounts.CreateOrUpdate(f.ctx, f.creator, v.ID, 0, authoring.DiscountInput{
			Code: d.code, Percentage: 10, StartDate: start, EndDate: d.end, IsActive: true,
		})
		require.NoError(t, err)
	}

	n, err := f.svc.Discounts.ExpireDiscounts(f.ctx, start.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var old course.Discount
	require.NoError(t, f.db.Where("code = ?", "OLD").First(&old).Error)
	assert.False(t, old.IsActive)
}

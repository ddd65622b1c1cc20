package services

import (
	"context"
	"testing"
	"time"

	"lingo/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModerator struct {
	got chan ReviewRequest
}

func (m *fakeModerator) SubmitForReview(_ context.Context, req ReviewRequest) error {
	m.got <- req
	return nil
}

func countStatus(t *testing.T, f *fixture, courseID uint, status string) int64 {
	var n int64
	require.NoError(t, f.db.Model(&course.CourseVersion{}).Where("course_id = ? AND status = ?", courseID, status).Count(&n).Error)
	return n
}

func TestCreateCourseStartsWithDraft(t *testing.T) {
	f := newFixture(t, nil)

	c, err := f.svc.Versions.CreateCourse(f.ctx, f.creator, CourseInput{Title: " Spanish ", BasePrice: 10})
	require.NoError(t, err)

	assert.Equal(t, "Spanish", c.Title)
	assert.Equal(t, course.ApprovalPending, c.ApprovalStatus)
	require.Len(t, c.Versions, 1)
	assert.Equal(t, course.StatusDraft, c.Versions[0].Status)
	assert.Equal(t, 1, c.Versions[0].VersionNumber)
	assert.Nil(t, c.Versions[0].Price)
}

func TestFreshDraftFailsThreeReadinessRules(t *testing.T) {
	f := newFixture(t, nil)
	c, err := f.svc.Versions.CreateCourse(f.ctx, f.creator, CourseInput{Title: "French"})
	require.NoError(t, err)
	id := c.Versions[0].ID

	_, err = f.svc.Versions.UpdateDraft(f.ctx, f.creator, id, VersionInput{Price: ptr(0.0), Description: ptr("short")})
	require.NoError(t, err)

	errs, err := f.svc.Versions.Readiness(f.ctx, id)
	require.NoError(t, err)
	require.Len(t, errs, 3)
	fields := []string{errs[0].Field, errs[1].Field, errs[2].Field}
	assert.ElementsMatch(t, []string{"description", "thumbnailUrl", "lessons"}, fields)

	_, err = f.svc.Versions.Publish(f.ctx, f.creator, id, "initial release", nil)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Equal(t, int64(1), countStatus(t, f, c.ID, course.StatusDraft))
	assert.Equal(t, int64(0), countStatus(t, f, c.ID, course.StatusPublic))
}

func TestPublishRequiresReason(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.readyDraft(t, 0)

	_, err := f.svc.Versions.Publish(f.ctx, f.creator, v.ID, "   ", nil)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "reasonForChange", verrs[0].Field)
}

func TestPublishArchivesPreviousPublic(t *testing.T) {
	f := newFixture(t, nil)
	c, v1 := f.publishedCourse(t, 0)

	assert.Equal(t, course.StatusPublic, v1.Status)
	assert.Equal(t, "initial release", v1.ReasonForChange)
	assert.NotNil(t, v1.PublishedAt)

	v2, err := f.svc.Versions.CreateDraft(f.ctx, f.creator, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)
	assert.Equal(t, v1.Description, v2.Description)
	require.Len(t, v2.Lessons, 2)
	assert.Equal(t, v1.Lessons[0].LessonID, v2.Lessons[0].LessonID)

	v2, err = f.svc.Versions.Publish(f.ctx, f.creator, v2.ID, "more lessons", nil)
	require.NoError(t, err)
	assert.Equal(t, course.StatusPublic, v2.Status)

	old, err := f.svc.Versions.Get(f.ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, course.StatusArchived, old.Status)
	assert.NotNil(t, old.ArchivedAt)
	assert.Equal(t, int64(1), countStatus(t, f, c.ID, course.StatusPublic))

	got, err := f.svc.Versions.GetCourse(f.ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LatestPublicVersionID)
	assert.Equal(t, v2.ID, *got.LatestPublicVersionID)
	assert.Equal(t, course.ApprovalPending, got.ApprovalStatus)

	history, err := f.svc.Versions.History(f.ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ActionArchived, history[len(history)-1].Action)

	_, err = f.svc.Versions.Publish(f.ctx, f.creator, v1.ID, "again", nil)
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestPublishOnlyOnce(t *testing.T) {
	f := newFixture(t, nil)
	c, v := f.readyDraft(t, 0)

	_, err := f.svc.Versions.Publish(f.ctx, f.creator, v.ID, "initial release", ptr(v.Revision))
	require.NoError(t, err)

	_, err = f.svc.Versions.Publish(f.ctx, f.creator, v.ID, "initial release", ptr(v.Revision))
	assertCode(t, err, "NOT_DRAFT")
	_, err = f.svc.Versions.Publish(f.ctx, f.creator, v.ID, "initial release", nil)
	assertCode(t, err, "NOT_DRAFT")
	assert.Equal(t, int64(1), countStatus(t, f, c.ID, course.StatusPublic))

	history, err := f.svc.Versions.History(f.ctx, v.ID)
	require.NoError(t, err)
	published := 0
	for _, h := range history {
		if h.Action == course.ActionPublished {
			published++
		}
	}
	assert.Equal(t, 1, published)

	_, err = f.svc.Versions.Publish(f.ctx, f.creator, v.ID+1000, "missing", nil)
	assertCode(t, err, "NOT_FOUND")
}

func TestCreateDraftIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	c, v := f.readyDraft(t, 0)

	again, err := f.svc.Versions.CreateDraft(f.ctx, f.creator, c.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, again.ID)
	assert.Equal(t, int64(1), countStatus(t, f, c.ID, course.StatusDraft))
}

func TestUpdateDraftStaleRevision(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.readyDraft(t, 0)

	_, err := f.svc.Versions.UpdateDraft(f.ctx, f.creator, v.ID, VersionInput{Level: ptr(course.LevelBeginner), ExpectedRevision: ptr(v.Revision)})
	require.NoError(t, err)

	_, err = f.svc.Versions.UpdateDraft(f.ctx, f.creator, v.ID, VersionInput{Level: ptr(course.LevelAdvanced), ExpectedRevision: ptr(v.Revision)})
	assertCode(t, err, "STALE_REVISION")

	_, err = f.svc.Versions.Publish(f.ctx, f.creator, v.ID, "initial release", ptr(v.Revision))
	assertCode(t, err, "STALE_REVISION")
}

func TestUpdateDraftClearPrice(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.readyDraft(t, 5)

	got, err := f.svc.Versions.UpdateDraft(f.ctx, f.creator, v.ID, VersionInput{ClearPrice: true})
	require.NoError(t, err)
	assert.Nil(t, got.Price)
}

func TestEditingPublicVersionIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.publishedCourse(t, 0)

	_, err := f.svc.Versions.UpdateDraft(f.ctx, f.creator, v.ID, VersionInput{Description: ptr("changed after publish, not allowed")})
	assert.ErrorIs(t, err, ErrNotDraft)
}

func TestOnlyAuthorEditsCourse(t *testing.T) {
	f := newFixture(t, nil)
	c, v := f.readyDraft(t, 0)
	other := Actor{ID: f.seedUser(t, "CREATOR", 0), Role: "CREATOR"}

	_, err := f.svc.Versions.UpdateDraft(f.ctx, other, v.ID, VersionInput{Level: ptr(course.LevelBeginner)})
	assertCode(t, err, "FORBIDDEN")
	_, err = f.svc.Versions.CreateDraft(f.ctx, other, c.ID)
	assertCode(t, err, "FORBIDDEN")
}

func TestModerate(t *testing.T) {
	f := newFixture(t, nil)

	t.Run("approve", func(t *testing.T) {
		c, v := f.publishedCourse(t, 0)
		res, err := f.svc.Versions.Moderate(f.ctx, f.admin, v.ID, true, "looks good")
		require.NoError(t, err)
		assert.Equal(t, course.StatusPublic, res.Version.Status)
		assert.Equal(t, course.ApprovalApproved, res.Course.ApprovalStatus)

		catalogue, err := f.svc.Versions.Catalogue(f.ctx, Page{Page: 1, Size: 10})
		require.NoError(t, err)
		require.NotEmpty(t, catalogue.Items)
		assert.Equal(t, c.ID, catalogue.Items[0].ID)
		assert.NotNil(t, catalogue.Items[0].LatestPublicVersion)
	})

	t.Run("reject", func(t *testing.T) {
		c, v := f.publishedCourse(t, 0)
		res, err := f.svc.Versions.Moderate(f.ctx, f.admin, v.ID, false, "audio missing")
		require.NoError(t, err)
		assert.Equal(t, course.StatusRejected, res.Version.Status)
		assert.Nil(t, res.Course.LatestPublicVersionID)

		got, err := f.svc.Versions.GetCourse(f.ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, course.ApprovalRejected, got.ApprovalStatus)
		assert.Nil(t, got.LatestPublicVersionID)

		_, err = f.svc.Versions.Moderate(f.ctx, f.admin, v.ID, true, "")
		assertCode(t, err, "INVALID_TRANSITION")
	})

	t.Run("draft cannot be moderated", func(t *testing.T) {
		_, v := f.readyDraft(t, 0)
		_, err := f.svc.Versions.Moderate(f.ctx, f.admin, v.ID, true, "")
		assertCode(t, err, "INVALID_TRANSITION")
	})

	t.Run("admins only", func(t *testing.T) {
		_, v := f.publishedCourse(t, 0)
		_, err := f.svc.Versions.Moderate(f.ctx, f.creator, v.ID, true, "")
		assertCode(t, err, "FORBIDDEN")
	})
}

func TestPublishNotifiesModeration(t *testing.T) {
	m := &fakeModerator{got: make(chan ReviewRequest, 1)}
	f := newFixture(t, m)

	c, v := f.publishedCourse(t, 0)

	select {
	case req := <-m.got:
		assert.Equal(t, c.ID, req.CourseID)
		assert.Equal(t, v.ID, req.VersionID)
		assert.Equal(t, "initial release", req.Reason)
	case <-time.After(2 * time.Second):
		t.Fatal("moderation was not notified")
	}
}

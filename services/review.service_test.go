package services

import (
	"testing"

	"lingo/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviews(t *testing.T) {
	f := newFixture(t, nil)
	c, v := f.publishedCourse(t, 0)

	_, err := f.svc.Reviews.Create(f.ctx, f.student, c.ID, 5, "great")
	assertCode(t, err, "FORBIDDEN")

	_, err = f.svc.Enrollments.Enroll(f.ctx, f.student, v.ID, "")
	require.NoError(t, err)

	_, err = f.svc.Reviews.Create(f.ctx, f.student, c.ID, 6, "")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	r, err := f.svc.Reviews.Create(f.ctx, f.student, c.ID, 4, " good ")
	require.NoError(t, err)
	assert.Equal(t, "good", r.Review)
	assert.Equal(t, course.ReviewStatusPending, r.Status)

	_, err = f.svc.Reviews.Create(f.ctx, f.student, c.ID, 3, "again")
	assertCode(t, err, "ALREADY_REVIEWED")

	page, err := f.svc.Reviews.ListApproved(f.ctx, c.ID, Page{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = f.svc.Reviews.Moderate(f.ctx, f.admin, r.ID, true)
	require.NoError(t, err)
	page, err = f.svc.Reviews.ListApproved(f.ctx, c.ID, Page{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].User)
	assert.Equal(t, f.student, page.Items[0].User.ID)
	assert.Empty(t, page.Items[0].User.Email)
}

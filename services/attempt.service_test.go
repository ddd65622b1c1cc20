package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAttempt(t *testing.T) {
	f := newFixture(t, nil)
	_, v := f.publishedCourse(t, 0)
	lessonID := v.Lessons[0].LessonID
	l, err := f.svc.Lessons.Load(f.ctx, lessonID)
	require.NoError(t, err)
	mc, match, essay := l.Questions[0].ID, l.Questions[1].ID, l.Questions[2].ID

	res, err := f.svc.Attempts.Submit(f.ctx, f.student, v.ID, lessonID, map[uint]json.RawMessage{
		mc:    json.RawMessage(`"A"`),
		match: json.RawMessage(`{"cat":"chó","dog":"mèo"}`),
		essay: json.RawMessage(`"Con mèo"`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempt.Score)
	assert.Equal(t, 2, res.Attempt.MaxScore)
	assert.True(t, res.Attempt.PendingReview)
	assert.Equal(t, 1, res.Attempt.AttemptNumber)
	require.Len(t, res.Results, 3)
	assert.True(t, res.Results[0].Correct)
	assert.False(t, res.Results[1].Correct)
	assert.False(t, res.Results[2].Graded)

	res, err = f.svc.Attempts.Submit(f.ctx, f.student, v.ID, lessonID, map[uint]json.RawMessage{
		match: json.RawMessage(`{"cat":"mèo","dog":"chó"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempt.Score)
	assert.False(t, res.Attempt.PendingReview)
	assert.Equal(t, 2, res.Attempt.AttemptNumber)

	attempts, err := f.svc.Attempts.List(f.ctx, f.student, lessonID)
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 2, attempts[0].AttemptNumber)

	_, err = f.svc.Attempts.Submit(f.ctx, f.student, v.ID, v.Lessons[1].LessonID, nil)
	assert.ErrorIs(t, err, ErrLessonLocked)
}

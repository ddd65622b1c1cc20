package services

import (
	"context"
	"testing"

	"lingo/authoring"
	"lingo/codec"
	"lingo/database"
	"lingo/logger"
	"lingo/models"
	"lingo/models/course"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	ctx     context.Context
	db      *gorm.DB
	svc     *Services
	creator Actor
	admin   Actor
	student uint
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   gormlogger.Discard,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newFixture(t *testing.T, moderation Moderator) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{ctx: context.Background(), db: db, svc: New(db, logger.Nop(), moderation)}
	f.creator = Actor{ID: f.seedUser(t, models.RoleCreator, 0), Role: models.RoleCreator}
	f.admin = Actor{ID: f.seedUser(t, models.RoleAdmin, 0), Role: models.RoleAdmin}
	f.student = f.seedUser(t, models.RoleStudent, 0)
	return f
}

func (f *fixture) seedUser(t *testing.T, role string, balance float64) uint {
	t.Helper()
	u := models.User{Email: uuid.NewString() + "@example.com", Password: "x", Role: role, MainBalance: balance}
	require.NoError(t, f.db.Create(&u).Error)
	return u.ID
}

func ptr[T any](v T) *T { return &v }

func quizLesson(title string, free bool) *authoring.Lesson {
	l := &authoring.Lesson{Title: title, LessonType: course.LessonQuiz, IsFree: free}
	_ = l.Append(authoring.NewQuestion("cat?", codec.MultipleChoice{Choices: codec.Choices{A: "mèo", B: "chó", C: "gà", D: "cá"}, Correct: "A"}))
	_ = l.Append(authoring.NewQuestion("match", codec.Matching{Pairs: []codec.Pair{{Key: "cat", Value: "mèo"}, {Key: "dog", Value: "chó"}}}))
	_ = l.Append(authoring.NewQuestion("describe", codec.Essay{Reference: "anything"}))
	return l
}

// readyDraft creates a course whose first draft passes the publish checklist.
func (f *fixture) readyDraft(t *testing.T, price float64) (*course.Course, *course.CourseVersion) {
	t.Helper()
	c, err := f.svc.Versions.CreateCourse(f.ctx, f.creator, CourseInput{Title: "Vietnamese 101", BasePrice: price})
	require.NoError(t, err)
	draft := c.Versions[0]

	_, err = f.svc.Versions.UpdateDraft(f.ctx, f.creator, draft.ID, VersionInput{
		Description:  ptr("Everyday Vietnamese for complete beginners."),
		ThumbnailURL: ptr("https://media.example.com/vi.png"),
		Price:        ptr(price),
	})
	require.NoError(t, err)
	_, err = f.svc.Lessons.CreateLesson(f.ctx, f.creator, draft.ID, quizLesson("Animals", true), nil)
	require.NoError(t, err)
	_, err = f.svc.Lessons.CreateLesson(f.ctx, f.creator, draft.ID, quizLesson("Food", false), nil)
	require.NoError(t, err)

	v, err := f.svc.Versions.Get(f.ctx, draft.ID)
	require.NoError(t, err)
	return c, v
}

func (f *fixture) publishedCourse(t *testing.T, price float64) (*course.Course, *course.CourseVersion) {
	t.Helper()
	c, v := f.readyDraft(t, price)
	v, err := f.svc.Versions.Publish(f.ctx, f.creator, v.ID, "initial release", nil)
	require.NoError(t, err)
	return c, v
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var serr *Error
	if assert.ErrorAs(t, err, &serr) {
		assert.Equal(t, code, serr.Code)
	}
}

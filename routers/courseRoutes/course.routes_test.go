package courseRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"lingo/config"
	"lingo/database"
	"lingo/logger"
	"lingo/middleware"
	"lingo/models"
	"lingo/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Code      int             `json:"code"`
	Result    json.RawMessage `json:"result"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode"`
}

type testServer struct {
	t       *testing.T
	app     *fiber.App
	db      *gorm.DB
	creator string
	student string
	admin   string
}

func newTestServer(t *testing.T) *testServer {
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

	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	database.Database = database.DbInstance{Db: db}
	services.App = services.New(db, logger.Nop(), nil)

	app := fiber.New()
	api := app.Group("/api/v1")
	SetupCourseRoutes(api)
	SetupAdminRoutes(api)

	s := &testServer{t: t, app: app, db: db}
	s.creator = s.token(models.RoleCreator)
	s.student = s.token(models.RoleStudent)
	s.admin = s.token(models.RoleAdmin)
	return s
}

func (s *testServer) token(role string) string {
	s.t.Helper()
	u := models.User{Name: role, Email: uuid.NewString() + "@example.com", Password: "x", Role: role}
	require.NoError(s.t, s.db.Create(&u).Error)
	token, err := middleware.GenerateJWT(u.ID, u.Name, u.Role, u.Email)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) envelope {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	var env envelope
	require.NoError(s.t, json.Unmarshal(raw, &env), string(raw))
	assert.Equal(s.t, resp.StatusCode, env.Code)
	return env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Result, &out), string(env.Result))
	return out
}

func multipleChoice(correct string) map[string]interface{} {
	return map[string]interface{}{
		"text": "Which one is a cat?",
		"type": "MULTIPLE_CHOICE",
		"body": map[string]interface{}{
			"choices": map[string]string{"A": "mèo", "B": "chó", "C": "gà", "D": "cá"},
			"correct": correct,
		},
	}
}

// createCourse returns the course id and its first draft id.
func (s *testServer) createCourse() (uint, uint) {
	s.t.Helper()
	env := s.do("POST", "/courses", s.creator, map[string]interface{}{"title": "Vietnamese 101", "basePrice": 0})
	require.Equal(s.t, fiber.StatusCreated, env.Code, env.Message)
	crs := decode[struct {
		ID       uint
		Versions []struct{ ID uint }
	}](s.t, env)
	require.Len(s.t, crs.Versions, 1)
	return crs.ID, crs.Versions[0].ID
}

func TestCourseRoutesRequireRoles(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, fiber.StatusUnauthorized, s.do("POST", "/courses", "", map[string]interface{}{"title": "x"}).Code)
	assert.Equal(t, fiber.StatusForbidden, s.do("POST", "/courses", s.student, map[string]interface{}{"title": "Nope"}).Code)
	assert.Equal(t, fiber.StatusForbidden, s.do("POST", "/admin/reviews/1/moderate", s.creator, map[string]interface{}{"approve": true}).Code)

	env := s.do("POST", "/courses", s.creator, map[string]interface{}{"title": ""})
	assert.Equal(t, fiber.StatusUnprocessableEntity, env.Code)
	assert.Contains(t, decode[map[string]string](t, env), "title")

	_, draftID := s.createCourse()
	other := s.token(models.RoleCreator)
	assert.Equal(t, fiber.StatusForbidden, s.do("GET", fmt.Sprintf("/versions/%d", draftID), other, nil).Code)
}

func TestAuthorPublishAndLearn(t *testing.T) {
	s := newTestServer(t)
	courseID, draftID := s.createCourse()
	version := fmt.Sprintf("/versions/%d", draftID)

	// Checklist reports every missing field.
	env := s.do("GET", version+"/readiness", s.creator, nil)
	require.Equal(t, fiber.StatusOK, env.Code)
	checklist := decode[struct {
		Ready  bool
		Errors []struct{ Field string }
	}](t, env)
	assert.False(t, checklist.Ready)
	assert.Len(t, checklist.Errors, 4)

	env = s.do("POST", version+"/publish", s.creator, map[string]interface{}{"reasonForChange": "first"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, env.Code)
	assert.Contains(t, decode[map[string]string](t, env), "price")

	env = s.do("PATCH", version, s.creator, map[string]interface{}{
		"description":  "Learn everyday Vietnamese from scratch.",
		"thumbnailUrl": "https://cdn.example.com/vn.png",
		"price":        0,
	})
	require.Equal(t, fiber.StatusOK, env.Code, env.Message)

	env = s.do("PATCH", version, s.creator, map[string]interface{}{"level": "BEGINNER", "expectedRevision": 999})
	assert.Equal(t, fiber.StatusConflict, env.Code)
	assert.Equal(t, "STALE_REVISION", env.ErrorCode)

	// Question bodies are validated per field.
	env = s.do("POST", version+"/lessons", s.creator, map[string]interface{}{
		"title":      "Animals",
		"lessonType": "QUIZ",
		"questions":  []interface{}{multipleChoice("E")},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, env.Code)
	assert.Contains(t, decode[map[string]string](t, env), "questions.0.body.correct")

	env = s.do("POST", version+"/lessons", s.creator, map[string]interface{}{
		"title":      "Animals",
		"lessonType": "QUIZ",
		"questions":  []interface{}{multipleChoice("mèo")},
	})
	require.Equal(t, fiber.StatusCreated, env.Code, env.Message)
	lesson := decode[struct {
		ID        uint
		Questions []struct {
			ID   uint
			Type string
			Body struct{ Correct string }
		}
	}](t, env)
	require.Len(t, lesson.Questions, 1)
	assert.Equal(t, "A", lesson.Questions[0].Body.Correct)

	env = s.do("POST", version+"/publish", s.creator, map[string]interface{}{"reasonForChange": "first"})
	require.Equal(t, fiber.StatusOK, env.Code, env.Message)
	assert.Equal(t, "PUBLIC", decode[struct{ Status string }](t, env).Status)

	env = s.do("PATCH", version, s.creator, map[string]interface{}{"level": "BEGINNER"})
	assert.Equal(t, fiber.StatusConflict, env.Code)
	assert.Equal(t, "NOT_DRAFT", env.ErrorCode)

	// The public detail is visible without a token.
	env = s.do("GET", fmt.Sprintf("/courses/%d", courseID), "", nil)
	require.Equal(t, fiber.StatusOK, env.Code)

	learn := fmt.Sprintf("%s/lessons/%d/learn", version, lesson.ID)
	assert.Equal(t, fiber.StatusForbidden, s.do("GET", learn, s.student, nil).Code)

	env = s.do("POST", version+"/enroll", s.student, nil)
	require.Equal(t, fiber.StatusCreated, env.Code, env.Message)

	env = s.do("GET", learn, s.student, nil)
	require.Equal(t, fiber.StatusOK, env.Code, env.Message)
	assert.NotContains(t, string(env.Result), "\"correct\"")

	attempts := fmt.Sprintf("%s/lessons/%d/attempts", version, lesson.ID)
	env = s.do("POST", attempts, s.student, map[string]interface{}{
		"responses": map[string]string{fmt.Sprint(lesson.Questions[0].ID): "A"},
	})
	require.Equal(t, fiber.StatusCreated, env.Code, env.Message)
	result := decode[struct {
		Results []struct{ Correct bool }
	}](t, env)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Correct)

	env = s.do("GET", attempts, s.student, nil)
	require.Equal(t, fiber.StatusOK, env.Code)
	assert.Len(t, decode[[]json.RawMessage](t, env), 1)
}

func TestStandaloneLessonQuestionRoutes(t *testing.T) {
	s := newTestServer(t)

	env := s.do("POST", "/lessons", s.creator, map[string]interface{}{
		"title":      "Greetings",
		"lessonType": "QUIZ",
		"questions":  []interface{}{multipleChoice("A")},
	})
	require.Equal(t, fiber.StatusCreated, env.Code, env.Message)
	lessonID := decode[struct{ ID uint }](t, env).ID
	path := fmt.Sprintf("/lessons/%d", lessonID)

	env = s.do("POST", path+"/questions", s.creator, map[string]interface{}{
		"index": 0,
		"question": map[string]interface{}{
			"text": "Xin chào means hello",
			"type": "TRUE_FALSE",
			"body": map[string]interface{}{"correct": true},
		},
	})
	require.Equal(t, fiber.StatusOK, env.Code, env.Message)

	env = s.do("GET", path, s.creator, nil)
	require.Equal(t, fiber.StatusOK, env.Code)
	lesson := decode[struct {
		Questions []struct {
			ID   uint
			Type string
		}
	}](t, env)
	require.Len(t, lesson.Questions, 2)
	assert.Equal(t, "TRUE_FALSE", lesson.Questions[0].Type)
	assert.Equal(t, "MULTIPLE_CHOICE", lesson.Questions[1].Type)

	other := s.token(models.RoleCreator)
	assert.Equal(t, fiber.StatusForbidden, s.do("GET", path, other, nil).Code)

	// Students practise standalone lessons without enrolling.
	env = s.do("GET", path+"/learn", s.student, nil)
	assert.Equal(t, fiber.StatusOK, env.Code, env.Message)
}

package courseValidator

import (
	"encoding/json"
	"fmt"
	"strings"

	"lingo/authoring"
	"lingo/codec"
	"lingo/middleware"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

// QuestionRequest is a question as sent by the lesson editor: a typed body under
// {"type", "body"}.
type QuestionRequest struct {
	ID          uint               `json:"id"`
	LocalID     string             `json:"localId" validate:"omitempty,max=64"`
	Text        string             `json:"text" validate:"required,max=2000"`
	Type        codec.QuestionType `json:"type" validate:"required"`
	Body        json.RawMessage    `json:"body"`
	Transcript  string             `json:"transcript" validate:"max=5000"`
	Explanation string             `json:"explanation" validate:"max=5000"`
	MediaURL    string             `json:"mediaUrl" validate:"max=2048"`
	Weight      int                `json:"weight" validate:"gte=0,lte=100"`
}

// draft parses the typed body. Body errors are keyed under prefix.
func (r *QuestionRequest) draft(prefix string, errors map[string]string) *authoring.QuestionDraft {
	body, bodyErrs := codec.ParseBody(r.Type, r.Body)
	for field, msg := range bodyErrs {
		errors[prefix+field] = msg
	}
	return &authoring.QuestionDraft{
		ID:          r.ID,
		LocalID:     strings.TrimSpace(r.LocalID),
		Text:        strings.TrimSpace(r.Text),
		Transcript:  r.Transcript,
		Explanation: r.Explanation,
		MediaURL:    strings.TrimSpace(r.MediaURL),
		Weight:      r.Weight,
		Body:        body,
	}
}

type LessonRequest struct {
	Title            string            `json:"title" validate:"required,max=200"`
	LessonType       string            `json:"lessonType" validate:"required,oneof=VIDEO DOCUMENT AUDIO QUIZ READING"`
	IsFree           bool              `json:"isFree"`
	DurationSeconds  int               `json:"durationSeconds" validate:"gte=0"`
	ThumbnailURL     string            `json:"thumbnailUrl" validate:"max=2048"`
	ContentURL       string            `json:"contentUrl" validate:"max=2048"`
	Questions        []QuestionRequest `json:"questions" validate:"max=200,dive"`
	ExpectedRevision *int              `json:"expectedRevision" validate:"omitempty,gte=0"`
}

// ValidatedLesson is what Lesson hands to the controller.
type ValidatedLesson struct {
	Lesson           *authoring.Lesson
	ExpectedRevision *int
}

// Lesson validates a full lesson aggregate: metadata and every question body.
func Lesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := validators.Struct(reqData)
		lesson := &authoring.Lesson{
			Title:           reqData.Title,
			LessonType:      reqData.LessonType,
			IsFree:          reqData.IsFree,
			DurationSeconds: reqData.DurationSeconds,
			ThumbnailURL:    strings.TrimSpace(reqData.ThumbnailURL),
			ContentURL:      strings.TrimSpace(reqData.ContentURL),
			Questions:       make([]*authoring.QuestionDraft, 0, len(reqData.Questions)),
		}
		seen := make(map[uint]bool)
		for i := range reqData.Questions {
			prefix := fmt.Sprintf("questions.%d.", i)
			q := reqData.Questions[i].draft(prefix, errors)
			if q.ID != 0 {
				if seen[q.ID] {
					errors[prefix+"id"] = "Question appears twice!"
				}
				seen[q.ID] = true
			}
			q.OrderIndex = i
			lesson.Questions = append(lesson.Questions, q)
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", &ValidatedLesson{Lesson: lesson, ExpectedRevision: reqData.ExpectedRevision})
		return c.Next()
	}
}

type QuestionInsertRequest struct {
	Index            *int            `json:"index" validate:"omitempty,gte=0"`
	Question         QuestionRequest `json:"question"`
	ExpectedRevision *int            `json:"expectedRevision" validate:"omitempty,gte=0"`
}

// ValidatedQuestion carries a parsed question edit.
type ValidatedQuestion struct {
	Index            *int
	Question         *authoring.QuestionDraft
	ExpectedRevision *int
}

// QuestionInsert validates a single question added to a lesson, optionally at index.
func QuestionInsert() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionInsertRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}
		errors := validators.Struct(reqData)
		q := reqData.Question.draft("question.", errors)
		q.ID = 0
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", &ValidatedQuestion{Index: reqData.Index, Question: q, ExpectedRevision: reqData.ExpectedRevision})
		return c.Next()
	}
}

// QuestionUpdate validates a replacement for an existing question.
func QuestionUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Question         QuestionRequest `json:"question"`
			ExpectedRevision *int            `json:"expectedRevision" validate:"omitempty,gte=0"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}
		errors := validators.Struct(reqData)
		q := reqData.Question.draft("question.", errors)
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuestion", &ValidatedQuestion{Question: q, ExpectedRevision: reqData.ExpectedRevision})
		return c.Next()
	}
}

type QuestionMoveRequest struct {
	To               *int `json:"to" validate:"required,gte=0"`
	ExpectedRevision *int `json:"expectedRevision" validate:"omitempty,gte=0"`
}

func QuestionMove() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuestionMoveRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedMove", reqData)
		return c.Next()
	}
}

type ReorderLessonsRequest struct {
	LessonIDs        []uint `json:"lessonIds" validate:"required,min=1,dive,gt=0"`
	ExpectedRevision *int   `json:"expectedRevision" validate:"omitempty,gte=0"`
}

func ReorderLessons() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderLessonsRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedReorder", reqData)
		return c.Next()
	}
}

// Attempt validates quiz responses keyed by question id.
func Attempt() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Responses map[uint]json.RawMessage `json:"responses"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}
		if len(reqData.Responses) == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"responses": "At least one response is required!",
			})
		}

		c.Locals("validatedAttempt", reqData.Responses)
		return c.Next()
	}
}

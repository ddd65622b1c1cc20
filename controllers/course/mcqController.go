package courseController

import (
	"lingo/authoring"
	"lingo/middleware"
	"lingo/services"
	"lingo/validators"
	courseValidator "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

type questionEdit func(l *authoring.Lesson, questionID uint) error

// editQuestion runs one question operation on the addressed lesson and saves it.
func editQuestion(c *fiber.Ctx, withQuestion bool, expectedRevision *int, edit questionEdit, message string) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := versionParam(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lessonID, err := validators.ParamID(c, "lessonId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	var questionID uint
	if withQuestion {
		if questionID, err = validators.ParamID(c, "questionId"); err != nil {
			return middleware.ErrorResponse(c, err)
		}
	}

	l, err := services.App.Lessons.Edit(c.UserContext(), actor, versionID, lessonID, expectedRevision, func(l *authoring.Lesson) error {
		return edit(l, questionID)
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, message, l)
}

func indexOf(l *authoring.Lesson, questionID uint) (int, error) {
	i := l.Find(questionID, "")
	if i < 0 {
		return 0, services.NotFound("Question")
	}
	return i, nil
}

// AddQuestion inserts a question at the requested index, or appends it.
func AddQuestion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuestion").(*courseValidator.ValidatedQuestion)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}
	return editQuestion(c, false, reqData.ExpectedRevision, func(l *authoring.Lesson, _ uint) error {
		if reqData.Index == nil {
			return l.Append(reqData.Question)
		}
		return l.Insert(*reqData.Index, reqData.Question)
	}, "Question added successfully.")
}

func UpdateQuestion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedQuestion").(*courseValidator.ValidatedQuestion)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}
	return editQuestion(c, true, reqData.ExpectedRevision, func(l *authoring.Lesson, questionID uint) error {
		i, err := indexOf(l, questionID)
		if err != nil {
			return err
		}
		return l.Update(i, reqData.Question)
	}, "Question updated successfully.")
}

func DeleteQuestion(c *fiber.Ctx) error {
	return editQuestion(c, true, courseValidator.ExpectedRevision(c), func(l *authoring.Lesson, questionID uint) error {
		i, err := indexOf(l, questionID)
		if err != nil {
			return err
		}
		return l.Remove(i)
	}, "Question deleted successfully.")
}

func MoveQuestion(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedMove").(*courseValidator.QuestionMoveRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}
	return editQuestion(c, true, reqData.ExpectedRevision, func(l *authoring.Lesson, questionID uint) error {
		i, err := indexOf(l, questionID)
		if err != nil {
			return err
		}
		return l.Move(i, *reqData.To)
	}, "Question moved successfully.")
}

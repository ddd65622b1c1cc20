package courseController

import (
	"encoding/json"

	"lingo/middleware"
	"lingo/services"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

// studentTarget reads the user and the lesson addressed by a student route. Standalone
// lessons are addressed without a version.
func studentTarget(c *fiber.Ctx) (userID, versionID, lessonID uint, err error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return 0, 0, 0, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized!")
	}
	version, err := versionParam(c)
	if err != nil {
		return 0, 0, 0, err
	}
	if version != nil {
		versionID = *version
	}
	lessonID, err = validators.ParamID(c, "lessonId")
	return userID, versionID, lessonID, err
}

// LearnLesson opens a lesson through the access gate. Answers are never included.
func LearnLesson(c *fiber.Ctx) error {
	userID, versionID, lessonID, err := studentTarget(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	l, err := services.App.Enrollments.AccessLesson(c.UserContext(), userID, versionID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lesson.", l)
}

func SubmitAttempt(c *fiber.Ctx) error {
	userID, versionID, lessonID, err := studentTarget(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	responses, ok := c.Locals("validatedAttempt").(map[uint]json.RawMessage)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	result, err := services.App.Attempts.Submit(c.UserContext(), userID, versionID, lessonID, responses)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Attempt submitted.", result)
}

func ListAttempts(c *fiber.Ctx) error {
	userID, _, lessonID, err := studentTarget(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	attempts, err := services.App.Attempts.List(c.UserContext(), userID, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Attempt list.", attempts)
}

package courseController

import (
	"lingo/authoring"
	"lingo/middleware"
	"lingo/services"
	"lingo/validators"
	courseValidator "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// versionParam reads the optional versionId route parameter. Routes under /lessons
// address standalone lessons and have none.
func versionParam(c *fiber.Ctx) (*uint, error) {
	if c.Params("versionId") == "" {
		return nil, nil
	}
	id, err := validators.ParamID(c, "versionId")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// CreateLesson creates a lesson and links it at the end of a draft.
func CreateLesson(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.ValidatedLesson)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	l, err := services.App.Lessons.CreateLesson(c.UserContext(), actor, versionID, reqData.Lesson, reqData.ExpectedRevision)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Lesson created successfully.", l)
}

// CreateStandaloneLesson creates a practice lesson outside any course.
func CreateStandaloneLesson(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.ValidatedLesson)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	l, err := services.App.Lessons.CreateStandalone(c.UserContext(), actor, reqData.Lesson)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Lesson created successfully.", l)
}

// MyStandaloneLessons lists the caller's practice lessons.
func MyStandaloneLessons(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	page, err := services.App.Lessons.StandaloneLessons(c.UserContext(), actor.ID, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lesson list.", page)
}

// PracticeLessons lists every standalone lesson for students.
func PracticeLessons(c *fiber.Ctx) error {
	page, err := services.App.Lessons.StandaloneLessons(c.UserContext(), 0, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lesson list.", page)
}

// GetLesson returns the authoring view of a lesson, answers included.
func GetLesson(c *fiber.Ctx) error {
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
	if err := services.App.Lessons.Authorize(c.UserContext(), actor, versionID, lessonID); err != nil {
		return middleware.ErrorResponse(c, err)
	}

	l, err := services.App.Lessons.Load(c.UserContext(), lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lesson detail.", l)
}

// SaveLesson replaces a lesson's metadata and question list. Questions sent without an
// id are created; stored questions left out are deleted.
func SaveLesson(c *fiber.Ctx) error {
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
	reqData, ok := c.Locals("validatedLesson").(*courseValidator.ValidatedLesson)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}
	in := reqData.Lesson

	l, err := services.App.Lessons.Edit(c.UserContext(), actor, versionID, lessonID, reqData.ExpectedRevision, func(l *authoring.Lesson) error {
		l.Title = in.Title
		l.LessonType = in.LessonType
		l.IsFree = in.IsFree
		l.DurationSeconds = in.DurationSeconds
		l.ThumbnailURL = in.ThumbnailURL
		l.ContentURL = in.ContentURL
		return l.Replace(in.Questions)
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lesson saved successfully.", l)
}

// RemoveLesson unlinks a lesson from a draft.
func RemoveLesson(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	lessonID, err := validators.ParamID(c, "lessonId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := services.App.Lessons.Unlink(c.UserContext(), actor, versionID, lessonID, courseValidator.ExpectedRevision(c)); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lesson removed successfully.", nil)
}

// ReorderLessons sets the lesson order of a draft.
func ReorderLessons(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedReorder").(*courseValidator.ReorderLessonsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	v, err := services.App.Lessons.Reorder(c.UserContext(), actor, versionID, reqData.LessonIDs, reqData.ExpectedRevision)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Lessons reordered successfully.", v)
}

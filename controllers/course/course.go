package courseController

import (
	"context"

	"lingo/database"
	"lingo/logger"
	"lingo/middleware"
	"lingo/models"
	"lingo/models/course"
	"lingo/services"
	"lingo/utils"
	"lingo/validators"
	courseValidator "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

func actorOf(c *fiber.Ctx) (services.Actor, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return services.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized!")
	}
	return actor, nil
}

// creatorOf loads a course together with its author for notifications.
func creatorOf(ctx context.Context, courseID uint) (*course.Course, *models.User, error) {
	db := database.Database.Db.WithContext(ctx)
	var crs course.Course
	if err := db.First(&crs, courseID).Error; err != nil {
		return nil, nil, err
	}
	var user models.User
	if err := db.Select("id", "name", "email").First(&user, crs.CreatorID).Error; err != nil {
		return nil, nil, err
	}
	return &crs, &user, nil
}

func CreateCourse(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	crs, err := services.App.Versions.CreateCourse(c.UserContext(), actor, services.CourseInput{
		Title:     reqData.Title,
		BasePrice: reqData.BasePrice,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Course created successfully.", crs)
}

// Catalogue lists published courses.
func Catalogue(c *fiber.Ctx) error {
	page, err := services.App.Versions.Catalogue(c.UserContext(), validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Course list.", page)
}

// GetCourse returns a course with its latest public version and lessons.
func GetCourse(c *fiber.Ctx) error {
	courseID, err := validators.ParamID(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	crs, err := services.App.Versions.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var version *course.CourseVersion
	if crs.LatestPublicVersionID != nil {
		version, err = services.App.Versions.Get(c.UserContext(), *crs.LatestPublicVersionID)
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		for _, link := range version.Lessons {
			if link.Lesson != nil && !link.Lesson.IsFree {
				link.Lesson.ContentURL = ""
			}
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Course detail.", fiber.Map{
		"course":  crs,
		"version": version,
	})
}

func MyCourses(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	page, err := services.App.Versions.CreatorCourses(c.UserContext(), actor, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Course list.", page)
}

func ListVersions(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	courseID, err := validators.ParamID(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Versions.AuthorizeCourse(c.UserContext(), actor, courseID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versions, err := services.App.Versions.List(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Version list.", versions)
}

// CreateDraft opens a new draft for a course, or returns the existing one.
func CreateDraft(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	courseID, err := validators.ParamID(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	draft, err := services.App.Versions.CreateDraft(c.UserContext(), actor, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Draft ready.", draft)
}

func GetVersion(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Versions.Authorize(c.UserContext(), actor, versionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	v, err := services.App.Versions.Get(c.UserContext(), versionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Version detail.", v)
}

func UpdateVersion(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedVersion").(*courseValidator.UpdateVersionRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	v, err := services.App.Versions.UpdateDraft(c.UserContext(), actor, versionID, reqData.Input())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Version updated successfully.", v)
}

// Readiness returns the publish checklist of a version. An empty list means it can be
// published.
func Readiness(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Versions.Authorize(c.UserContext(), actor, versionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	errs, err := services.App.Versions.Readiness(c.UserContext(), versionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Publish checklist.", fiber.Map{
		"ready":  len(errs) == 0,
		"errors": errs,
	})
}

func Publish(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedPublish").(*courseValidator.PublishRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	v, err := services.App.Versions.Publish(c.UserContext(), actor, versionID, reqData.ReasonForChange, reqData.ExpectedRevision)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if crs, user, err := creatorOf(c.UserContext(), v.CourseID); err != nil {
		logger.Log.Warn("load course creator", "courseId", v.CourseID, "error", err)
	} else {
		utils.SendVersionPublishedEmail(user.Email, user.Name, crs.Title, v.VersionNumber)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Version published successfully.", v)
}

func History(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Versions.Authorize(c.UserContext(), actor, versionID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	history, err := services.App.Versions.History(c.UserContext(), versionID)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Version history.", history)
}

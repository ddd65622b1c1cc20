package courseController

import (
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

// EnrollCourse buys or joins the public version of a course.
func EnrollCourse(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedEnroll").(*courseValidator.EnrollRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	enrollment, err := services.App.Enrollments.Enroll(c.UserContext(), userId, versionID, reqData.DiscountCode)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	db := database.Database.Db.WithContext(c.UserContext())
	var user models.User
	var crs course.Course
	if err := db.Select("id", "name", "email").First(&user, userId).Error; err != nil {
		logger.Log.Warn("load enrolled user", "userId", userId, "error", err)
	} else if err := db.Select("id", "title").First(&crs, enrollment.CourseID).Error; err != nil {
		logger.Log.Warn("load enrolled course", "courseId", enrollment.CourseID, "error", err)
	} else {
		utils.SendEnrollmentEmail(user.Email, user.Name, crs.Title, enrollment.PricePaid)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Enrolled successfully.", enrollment)
}

func MyEnrollments(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	page, err := services.App.Enrollments.ListForUser(c.UserContext(), userId, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment list.", page)
}

func CancelEnrollment(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	enrollmentID, err := validators.ParamID(c, "enrollmentId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := services.App.Enrollments.Cancel(c.UserContext(), userId, enrollmentID); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Enrollment cancelled.", nil)
}

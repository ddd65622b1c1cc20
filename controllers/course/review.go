package courseController

import (
	"lingo/middleware"
	"lingo/services"
	"lingo/validators"
	courseValidator "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

func CreateReview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	courseID, err := validators.ParamID(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedReview").(*courseValidator.ReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	r, err := services.App.Reviews.Create(c.UserContext(), userId, courseID, reqData.Rating, reqData.Review)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Review submitted for moderation.", r)
}

func ListReviews(c *fiber.Ctx) error {
	courseID, err := validators.ParamID(c, "courseId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	page, err := services.App.Reviews.ListApproved(c.UserContext(), courseID, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Review list.", page)
}

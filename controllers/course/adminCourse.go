package courseController

import (
	"lingo/middleware"
	"lingo/services"
	"lingo/utils"
	"lingo/validators"
	courseValidator "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// ModerateVersion records the reviewers' decision on a public version and tells the
// creator.
func ModerateVersion(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	versionID, err := validators.ParamID(c, "versionId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reqData, ok := c.Locals("validatedModeration").(*courseValidator.ModerateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}
	approve := *reqData.Approve

	res, err := services.App.Versions.Moderate(c.UserContext(), actor, versionID, approve, reqData.Comments)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if crs, user, err := creatorOf(c.UserContext(), res.Course.ID); err == nil {
		if approve {
			utils.SendCourseApprovedEmail(user.Email, user.Name, crs.Title)
		} else {
			utils.SendCourseRejectedEmail(user.Email, user.Name, crs.Title, reqData.Comments)
		}
	}

	message := "Course approved."
	if !approve {
		message = "Course rejected."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, message, res)
}

func ModerateReview(c *fiber.Ctx) error {
	actor, err := actorOf(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	reviewID, err := validators.ParamID(c, "reviewId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	approve, ok := c.Locals("validatedReviewModeration").(bool)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	r, err := services.App.Reviews.Moderate(c.UserContext(), actor, reviewID, approve)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Review moderated.", r)
}

package courseValidator

import (
	"strings"

	"lingo/middleware"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

type ModerateRequest struct {
	Approve  *bool  `json:"approve" validate:"required"`
	Comments string `json:"comments" validate:"max=2000"`
}

// Moderate validates an approve/reject decision. A rejection needs a comment for the
// creator.
func Moderate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModerateRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Comments = strings.TrimSpace(reqData.Comments)
		if !*reqData.Approve && reqData.Comments == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"comments": "A reason is required when rejecting!",
			})
		}

		c.Locals("validatedModeration", reqData)
		return c.Next()
	}
}

func ModerateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Approve *bool `json:"approve" validate:"required"`
		})
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedReviewModeration", *reqData.Approve)
		return c.Next()
	}
}

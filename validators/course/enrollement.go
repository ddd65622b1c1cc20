package courseValidator

import (
	"strings"
	"time"

	"lingo/authoring"
	"lingo/middleware"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

type EnrollRequest struct {
	DiscountCode string `json:"discountCode" validate:"max=50"`
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if len(c.Body()) > 0 {
			if ok, err := validators.Body(c, reqData); !ok {
				return err
			}
		}
		reqData.DiscountCode = strings.ToUpper(strings.TrimSpace(reqData.DiscountCode))

		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

type ReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Review string `json:"review" validate:"max=2000"`
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Review = strings.TrimSpace(reqData.Review)

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

type DiscountRequest struct {
	Code       string `json:"code" validate:"required,max=50"`
	Percentage int    `json:"percentage" validate:"required"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate" validate:"required"`
	IsActive   *bool  `json:"isActive"`
}

// Discount validates a discount window. Dates accept anything jinzhu/now parses; a
// date without a time ends at the end of that day.
func Discount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DiscountRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}
		errors := validators.Struct(reqData)

		start, err := parseDate(reqData.StartDate, false)
		if err != nil && reqData.StartDate != "" {
			errors["startDate"] = "Invalid start date!"
		}
		end, err := parseDate(reqData.EndDate, true)
		if err != nil && reqData.EndDate != "" {
			errors["endDate"] = "Invalid end date!"
		}

		in := authoring.DiscountInput{
			Code:       reqData.Code,
			Percentage: reqData.Percentage,
			StartDate:  start,
			EndDate:    end,
			IsActive:   reqData.IsActive == nil || *reqData.IsActive,
		}
		if len(errors) == 0 {
			var verrs []authoring.ValidationError
			in, verrs = authoring.NormalizeDiscount(in)
			for _, e := range verrs {
				errors[e.Field] = e.Message
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDiscount", &in)
		return c.Next()
	}
}

func parseDate(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := now.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay && len(s) <= len("2006-01-02") {
		t = now.With(t).EndOfDay()
	}
	return t, nil
}

package courseValidator

import (
	"strings"

	"lingo/middleware"
	"lingo/services"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title     string  `json:"title" validate:"required,min=3,max=200"`
	BasePrice float64 `json:"basePrice" validate:"gte=0"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// UpdateVersionRequest edits draft metadata. Absent fields are left unchanged; a
// null price is only honoured through clearPrice.
type UpdateVersionRequest struct {
	Description             *string  `json:"description" validate:"omitempty,max=5000"`
	ThumbnailURL            *string  `json:"thumbnailUrl" validate:"omitempty,max=2048"`
	Price                   *float64 `json:"price" validate:"omitempty,gte=0"`
	ClearPrice              bool     `json:"clearPrice"`
	Level                   *string  `json:"level" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	LanguageCode            *string  `json:"languageCode" validate:"omitempty,min=2,max=10"`
	InstructionLanguageCode *string  `json:"instructionLanguageCode" validate:"omitempty,min=2,max=10"`
	ExpectedRevision        *int     `json:"expectedRevision" validate:"omitempty,gte=0"`
}

func (r *UpdateVersionRequest) Input() services.VersionInput {
	return services.VersionInput{
		Description:             r.Description,
		ThumbnailURL:            r.ThumbnailURL,
		Price:                   r.Price,
		ClearPrice:              r.ClearPrice,
		Level:                   r.Level,
		LanguageCode:            r.LanguageCode,
		InstructionLanguageCode: r.InstructionLanguageCode,
		ExpectedRevision:        r.ExpectedRevision,
	}
}

func UpdateVersion() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateVersionRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if reqData.ClearPrice && reqData.Price != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"price": "Price cannot be set and cleared at the same time!",
			})
		}

		c.Locals("validatedVersion", reqData)
		return c.Next()
	}
}

type PublishRequest struct {
	ReasonForChange  string `json:"reasonForChange" validate:"required,max=1000"`
	ExpectedRevision *int   `json:"expectedRevision" validate:"omitempty,gte=0"`
}

func Publish() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PublishRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}
		reqData.ReasonForChange = strings.TrimSpace(reqData.ReasonForChange)
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedPublish", reqData)
		return c.Next()
	}
}

// Revision reads the optional expectedRevision query parameter of body-less requests.
func Revision() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ExpectedRevision *int `query:"expectedRevision" json:"expectedRevision" validate:"omitempty,gte=0"`
		})
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid query parameters!", nil)
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("expectedRevision", reqData.ExpectedRevision)
		return c.Next()
	}
}

// ExpectedRevision returns the value stored by Revision.
func ExpectedRevision(c *fiber.Ctx) *int {
	rev, _ := c.Locals("expectedRevision").(*int)
	return rev
}

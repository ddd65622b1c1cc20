package middleware

import (
	"errors"

	"lingo/logger"
	"lingo/services"

	"github.com/gofiber/fiber/v2"
)

// GenericErrorMessage is shown when no more specific message is available.
const GenericErrorMessage = "Something went wrong, please try again!"

// JsonResponse writes the {code, result, message} envelope.
func JsonResponse(c *fiber.Ctx, statusCode int, message string, result interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"code":    statusCode,
		"result":  result,
		"message": message,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, "Validation failed!", errors)
}

// ErrorResponse answers with the status carried by err. Unknown errors are logged and
// answered with the generic message.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		return ValidationErrorResponse(c, verrs.Fields())
	}

	var serr *services.Error
	if errors.As(err, &serr) {
		return c.Status(serr.Status).JSON(fiber.Map{
			"code":      serr.Status,
			"result":    nil,
			"message":   serr.Error(),
			"errorCode": serr.Code,
		})
	}

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return JsonResponse(c, ferr.Code, ferr.Message, nil)
	}

	logger.Log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	return JsonResponse(c, fiber.StatusInternalServerError, GenericErrorMessage, nil)
}

// Actor returns the authenticated user set by JWTMiddleware.
func Actor(c *fiber.Ctx) (services.Actor, bool) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return services.Actor{}, false
	}
	role, _ := c.Locals("role").(string)
	return services.Actor{ID: userID, Role: role}, true
}

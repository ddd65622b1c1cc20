package authValidator

import (
	"strings"

	"lingo/middleware"
	"lingo/models"
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

type SignupRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Mobile         string `json:"mobile" validate:"omitempty,numeric,len=10"`
	Password       string `json:"password" validate:"required,min=8"`
	Role           string `json:"role" validate:"omitempty,oneof=STUDENT CREATOR"`
	NativeLanguage string `json:"nativeLanguage" validate:"omitempty,min=2,max=10"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))
		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Role == "" {
			reqData.Role = models.RoleStudent
		}

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		reqData.Email = strings.ToLower(strings.TrimSpace(reqData.Email))

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
	CnfPassword     string `json:"cnfPassword" validate:"required"`
}

func ChangeLoginPassword() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ChangePasswordRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}
		if reqData.NewPassword != reqData.CnfPassword {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"cnfPassword": "New password and confirm password do not match!",
			})
		}

		c.Locals("validatedPassword", reqData)
		return c.Next()
	}
}

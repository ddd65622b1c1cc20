package walletValidator

import (
	"lingo/validators"

	"github.com/gofiber/fiber/v2"
)

type DepositRequest struct {
	Amount float64 `json:"amount" validate:"gt=0,lte=100000"`
}

// Deposit validates user deposit request
func Deposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepositRequest)
		if ok, err := validators.Body(c, reqData); !ok {
			return err
		}

		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}

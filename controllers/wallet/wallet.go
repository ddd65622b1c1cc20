package walletController

import (
	"lingo/database"
	"lingo/logger"
	"lingo/middleware"
	"lingo/models"
	"lingo/services"
	"lingo/utils"
	"lingo/validators"
	walletValidator "lingo/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

// GetWalletBalance returns user's current wallet balance
func GetWalletBalance(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}

	balance, err := services.App.Wallet.Balance(c.UserContext(), userId)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Wallet balance fetched!", fiber.Map{
		"balance": balance,
	})
}

// DepositToWallet credits the user's wallet.
func DepositToWallet(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	reqData, ok := c.Locals("validatedDeposit").(*walletValidator.DepositRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request data!", nil)
	}

	txn, err := services.App.Wallet.Deposit(c.UserContext(), userId, reqData.Amount)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var user models.User
	if err := database.Database.Db.WithContext(c.UserContext()).Select("id", "name", "email").First(&user, userId).Error; err != nil {
		logger.Log.Warn("load depositing user", "userId", userId, "error", err)
	} else {
		utils.SendWalletDepositEmail(user.Email, user.Name, reqData.Amount)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, "Deposit successful!", txn)
}

// GetWalletHistory lists the user's wallet transactions, newest first.
func GetWalletHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, "Unauthorized!", nil)
	}
	page, err := services.App.Wallet.History(c.UserContext(), userId, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Wallet history fetched!", page)
}

// GetUserWalletHistory lets an admin read any user's wallet transactions.
func GetUserWalletHistory(c *fiber.Ctx) error {
	userId, err := validators.ParamID(c, "userId")
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	page, err := services.App.Wallet.History(c.UserContext(), userId, validators.Page(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Wallet history fetched!", page)
}

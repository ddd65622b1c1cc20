package walletRoutes

import (
	walletController "lingo/controllers/wallet"
	"lingo/middleware"
	"lingo/validators"
	walletValidator "lingo/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func SetupWalletRoutes(router fiber.Router) {
	walletGroup := router.Group("/wallet", middleware.JWTMiddleware)

	walletGroup.Get("/balance", walletController.GetWalletBalance)
	walletGroup.Post("/deposit", walletValidator.Deposit(), walletController.DepositToWallet)
	walletGroup.Get("/history", validators.Pagination(), walletController.GetWalletHistory)
}

package courseRoutes

import (
	controllers "lingo/controllers/course"
	walletController "lingo/controllers/wallet"
	"lingo/middleware"
	"lingo/models"
	"lingo/validators"
	courseValidators "lingo/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes sets up the moderation routes. Every route requires an admin token.
func SetupAdminRoutes(router fiber.Router) {
	adminGroup := router.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	adminGroup.Post("/versions/:versionId/moderate", courseValidators.Moderate(), controllers.ModerateVersion)
	adminGroup.Post("/reviews/:reviewId/moderate", courseValidators.ModerateReview(), controllers.ModerateReview)
	adminGroup.Get("/wallet/users/:userId/history", validators.Pagination(), walletController.GetUserWalletHistory)
}

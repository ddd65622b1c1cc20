package main

import (
	"log"

	"lingo/clients"
	"lingo/config"
	courseController "lingo/controllers/course"
	"lingo/database"
	appLogger "lingo/logger"
	authRoutes "lingo/routers/authRoutes"
	courseRoutes "lingo/routers/courseRoutes"
	walletRoutes "lingo/routers/walletRoutes"
	"lingo/services"
	"lingo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	if err := appLogger.Init(cfg.LogMode); err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	defer appLogger.Log.Sync()

	database.ConnectDb()

	var moderation services.Moderator
	if cfg.ModerationURL != "" {
		moderation = clients.NewModerationClient(cfg.ModerationURL, cfg.ModerationAPIKey)
	}
	services.App = services.New(database.Database.Db, appLogger.Log, moderation)

	if cfg.MediaServiceURL != "" {
		courseController.Media = clients.NewMediaClient(cfg.MediaServiceURL, cfg.MediaPublicURL)
	}

	scheduler, err := utils.InitializeDiscountScheduler(cfg.DiscountExpiryCron, services.App.Discounts)
	if err != nil {
		log.Fatalf("Failed to start discount scheduler: %v", err)
	}
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: utils.MaxUploadSize,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	api := app.Group("/api/v1")
	authRoutes.SetupAuthRoutes(api)
	courseRoutes.SetupCourseRoutes(api)
	courseRoutes.SetupAdminRoutes(api)
	walletRoutes.SetupWalletRoutes(api)

	appLogger.Log.Info("server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLogger.Log.Fatal("server stopped", "error", err)
	}
}

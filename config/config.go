package config

import (
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string `env:"PORT" envDefault:"3000"`
	LogMode   string `env:"LOG_MODE" envDefault:"development"`
	JWTKey    string `env:"JWT_SECRET_KEY" envDefault:"defaultSecret"`
	SaltRound int    `env:"SALT_ROUND" envDefault:"10"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"` // postgres, mysql or sqlite
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"lingo"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"lingo.db"`

	EmailSender    string `env:"EMAIL_SENDER"`
	Password       string `env:"PASSWORD"` // SMTP Password
	SendgridAPIKey string `env:"SENDGRID_API_KEY"`

	MediaServiceURL  string `env:"MEDIA_SERVICE_URL"`
	MediaPublicURL   string `env:"MEDIA_PUBLIC_URL"`
	ModerationURL    string `env:"MODERATION_URL"`
	ModerationAPIKey string `env:"MODERATION_API_KEY"`

	DiscountExpiryCron string `env:"DISCOUNT_EXPIRY_CRON" envDefault:"*/5 * * * *"`
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	cfg, err := Parse()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	AppConfig = cfg

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// Parse reads the configuration from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

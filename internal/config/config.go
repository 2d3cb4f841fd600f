package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DefaultWeddingDate is the ceremony start in WEDDING_TZ
const DefaultWeddingDate = "2026-01-25T10:00:00"

const weddingDateLayout = "2006-01-02T15:04:05"

// Config holds application configuration
type Config struct {
	ServerPort      string
	APIPort         string
	APIBaseURL      string
	SiteBaseURL     string
	WeddingDate     time.Time
	StaticFilesPath string
	SessionDuration time.Duration
	Debug           bool
	LogLevel        string

	// Reference API storage
	DatabaseType string
	DatabasePath string
	DatabaseURL  string

	CSRFSecret string

	// RSVP sessions go to Redis when RedisAddr is set
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PIXKey             string
	PIXMerchantName    string
	PIXMerchantCity    string
	PIXDiscountPercent int
	PIXPaymentWindow   time.Duration

	MercadoPagoPublicKey string

	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	AdminPasswordHash string
	AdminJWTSecret    string
}

// LoadDotEnv reads a .env file into the environment when one exists.
// It reports whether a file was loaded.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	loc, err := time.LoadLocation(getEnv("WEDDING_TZ", "America/Sao_Paulo"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEDDING_TZ: %w", err)
	}

	wedding, err := time.ParseInLocation(weddingDateLayout, getEnv("WEDDING_DATE", DefaultWeddingDate), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid WEDDING_DATE: %w", err)
	}

	discount := getEnvInt("PIX_DISCOUNT_PERCENT", 5)
	if discount < 0 || discount > 100 {
		return nil, fmt.Errorf("invalid PIX_DISCOUNT_PERCENT: %d", discount)
	}

	apiPort := getEnv("API_PORT", "8081")
	port := getEnv("PORT", "8080")

	return &Config{
		ServerPort:      port,
		APIPort:         apiPort,
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:"+apiPort),
		SiteBaseURL:     getEnv("SITE_BASE_URL", "http://localhost:"+port),
		WeddingDate:     wedding,
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		SessionDuration: 24 * time.Hour,
		Debug:           getEnvBool("DEBUG", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),

		DatabaseType: getEnv("DB_TYPE", "sqlite3"),
		DatabasePath: getEnv("DB_PATH", "./casamento.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		CSRFSecret: getEnv("CSRF_SECRET", ""),

		RedisAddr:     getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		PIXKey:             getEnv("PIX_KEY", ""),
		PIXMerchantName:    getEnv("PIX_MERCHANT_NAME", "CASAMENTO"),
		PIXMerchantCity:    getEnv("PIX_MERCHANT_CITY", "SAO PAULO"),
		PIXDiscountPercent: discount,
		PIXPaymentWindow:   15 * time.Minute,

		MercadoPagoPublicKey: getEnv("MERCADO_PAGO_PUBLIC_KEY", ""),

		AWSRegion:    getEnv("AWS_REGION", "sa-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Casamento"),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminJWTSecret:    getEnv("ADMIN_JWT_SECRET", ""),
	}, nil
}

// DatabaseDSN returns the connection string for the configured database type
func (c *Config) DatabaseDSN() string {
	if c.DatabaseType == "sqlite3" || c.DatabaseURL == "" {
		return c.DatabasePath
	}
	return c.DatabaseURL
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	LogLevel    string
	HTTPAddr    string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Razorpay RazorpayConfig
	Brevo    BrevoConfig
	Mux      MuxConfig
	Inquiry  InquiryConfig

	// Currency for every gateway order. The box office sells in a single currency.
	Currency string

	// AccessGraceWindow extends stream access past an item's end time.
	AccessGraceWindow time.Duration
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

type BrevoConfig struct {
	APIKey      string
	BaseURL     string
	SenderEmail string
	SenderName  string
}

type MuxConfig struct {
	SigningKeyID      string
	SigningPrivateKey string
	WatchBaseURL      string
}

type InquiryConfig struct {
	InboxEmail string
	InboxName  string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "boxoffice"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "boxoffice"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 25)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 3600)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 600)),

		Razorpay: RazorpayConfig{
			KeyID:     strings.TrimSpace(getenv("RAZORPAY_KEY_ID", "")),
			KeySecret: strings.TrimSpace(getenv("RAZORPAY_KEY_SECRET", "")),
			BaseURL:   getenv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		},
		Brevo: BrevoConfig{
			APIKey:      strings.TrimSpace(getenv("BREVO_API_KEY", "")),
			BaseURL:     getenv("BREVO_BASE_URL", "https://api.brevo.com/v3"),
			SenderEmail: getenv("BREVO_SENDER_EMAIL", "info@dakshina-arts.com"),
			SenderName:  getenv("BREVO_SENDER_NAME", "The Dakshina Dance Repertory"),
		},
		Mux: MuxConfig{
			SigningKeyID:      strings.TrimSpace(getenv("MUX_SIGNING_KEY_ID", "")),
			SigningPrivateKey: strings.TrimSpace(getenv("MUX_SIGNING_PRIVATE_KEY", "")),
			WatchBaseURL:      getenv("WATCH_BASE_URL", "https://dakshina-arts.com/watch"),
		},
		Inquiry: InquiryConfig{
			InboxEmail: getenv("INQUIRY_INBOX_EMAIL", "info@dakshina-arts.com"),
			InboxName:  getenv("INQUIRY_INBOX_NAME", "The Dakshina Dance Repertory"),
		},

		Currency:          getenv("ORDER_CURRENCY", "INR"),
		AccessGraceWindow: time.Duration(getenvInt64("ACCESS_GRACE_HOURS", 6)) * time.Hour,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

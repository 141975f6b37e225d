package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Env carries all environment-driven settings recognized by the backend.
type Env struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`
	AppEnv  string `envconfig:"APP_ENV" default:"development"`
	GinMode string `envconfig:"GIN_MODE"`

	DBDSN string `envconfig:"DB_DSN" default:"root:@tcp(127.0.0.1:3306)/tattoo_studio?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"`

	// Mail transport
	MailAPIKey     string `envconfig:"MAIL_API_KEY"`
	MailAPIBaseURL string `envconfig:"MAIL_API_BASE_URL" default:"https://api.resend.com"`
	MailFrom       string `envconfig:"MAIL_FROM"`
	ShopInbox      string `envconfig:"SHOP_INBOX"`

	// Booking intake
	BookingEnabled    bool   `envconfig:"BOOKING_ENABLED" default:"true"`
	BlobPublicBaseURL string `envconfig:"BLOB_PUBLIC_BASE_URL"`

	// Admin gate
	AdminPassword     string `envconfig:"ADMIN_PASSWORD"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`
	AdminTokenSecret  string `envconfig:"ADMIN_TOKEN_SECRET"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`
	RateLimitPerMin    int    `envconfig:"RATE_LIMIT_PER_MIN" default:"30"`
}

// LoadEnv reads configuration from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	err := envconfig.Process("", &e)
	return e, err
}

// CookieSecure reports whether admin cookies should carry the Secure attribute.
// Only a local/dev posture serves over plain HTTP, where Secure would make the
// cookie unusable; any other environment (staging included) gets Secure.
func (e Env) CookieSecure() bool {
	switch strings.ToLower(strings.TrimSpace(e.AppEnv)) {
	case "", "development", "dev", "local", "test":
		return false
	}
	return true
}

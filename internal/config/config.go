package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	WAToken         string `envconfig:"WA_TOKEN" required:"true"`
	WAPhoneNumberID string `envconfig:"WA_PHONE_NUMBER_ID" required:"true"`
	WAVerifyToken   string `envconfig:"WA_VERIFY_TOKEN" required:"true"`
	WABaseURL       string `envconfig:"WA_BASE_URL" default:"https://graph.facebook.com/v19.0"`

	DBPath   string `envconfig:"DB_PATH" default:"./data/habits.db"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error

	// DefaultTZ drives the trigger clocks and the coarse summary pre-filter;
	// per-user math always uses the user's own timezone.
	DefaultTZ string `envconfig:"DEFAULT_TZ" default:"UTC"`

	ReminderCheckEvery time.Duration `envconfig:"REMINDER_CHECK_EVERY" default:"24h"`
	DailySummaryAt     string        `envconfig:"DAILY_SUMMARY_AT" default:"20:00"`
	WeeklySummaryAt    string        `envconfig:"WEEKLY_SUMMARY_AT" default:"Sun 20:00"`
}

// Load reads environment variables into Config. A .env file, if present,
// is applied first (best effort; a missing file is not an error).
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

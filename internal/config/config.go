package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Port           string   `env:"API_PORT" envDefault:"8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	APIRateRPS     float64  `env:"API_RATE_RPS" envDefault:"10"`
	APIRateBurst   int      `env:"API_RATE_BURST" envDefault:"20"`

	// Logging Configuration
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// Storage Configuration
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Contact form / mail Configuration
	ResendAPIKey          string        `env:"RESEND_API_KEY"`
	MailFrom              string        `env:"MAIL_FROM" envDefault:"Nathan Theresa <onboarding@resend.dev>"`
	MailSubject           string        `env:"MAIL_SUBJECT" envDefault:"Thank you for contacting us!"`
	MailSignature         string        `env:"MAIL_SIGNATURE" envDefault:"Nathan Theresa"`
	ContactRateLimit      int           `env:"CONTACT_RATE_LIMIT" envDefault:"3"`
	ContactRateWindow     time.Duration `env:"CONTACT_RATE_WINDOW" envDefault:"1h"`
	ContactLedgerCapacity int           `env:"CONTACT_LEDGER_CAPACITY" envDefault:"1000"`
	ContactLedgerSweep    time.Duration `env:"CONTACT_LEDGER_SWEEP" envDefault:"10m"`

	// Telegram owner alerts (optional)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`

	// YouTube Configuration
	YouTubeAPIKey        string `env:"YOUTUBE_API_KEY"`
	YouTubeChannelHandle string `env:"YOUTUBE_CHANNEL_HANDLE" envDefault:"akhilnathan2622"`
	YouTubeMaxResults    int64  `env:"YOUTUBE_MAX_RESULTS" envDefault:"10"`

	// Firebase Configuration
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env.local", ".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	// godotenv never overrides variables that are already set, so earlier
	// files win over later ones
	for _, loc := range envLocations {
		_ = godotenv.Load(loc)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/api.log"
		} else {
			cfg.LogFile = "./logs/api.log"
		}
	}

	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that would otherwise fail at request time
func (c *Config) Validate() error {
	if c.ContactRateLimit <= 0 {
		return fmt.Errorf("CONTACT_RATE_LIMIT must be positive")
	}
	if c.ContactRateWindow <= 0 {
		return fmt.Errorf("CONTACT_RATE_WINDOW must be positive")
	}
	if c.ContactLedgerCapacity <= 0 {
		return fmt.Errorf("CONTACT_LEDGER_CAPACITY must be positive")
	}
	if c.ContactLedgerSweep <= 0 {
		return fmt.Errorf("CONTACT_LEDGER_SWEEP must be positive")
	}
	if c.APIRateRPS <= 0 {
		return fmt.Errorf("API_RATE_RPS must be positive")
	}
	if c.APIRateBurst <= 0 {
		return fmt.Errorf("API_RATE_BURST must be positive")
	}
	if c.YouTubeMaxResults <= 0 || c.YouTubeMaxResults > 50 {
		return fmt.Errorf("YOUTUBE_MAX_RESULTS must be between 1 and 50")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

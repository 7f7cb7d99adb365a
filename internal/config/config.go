// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// BookingConfig controls slot generation and booking housekeeping.
type BookingConfig struct {
	Timezone string `yaml:"timezone"`
	// PendingHoldTTL bounds how long an unpaid PENDING booking blocks its slot.
	PendingHoldTTL time.Duration `yaml:"pending_hold_ttl"`
	RescheduleLead time.Duration `yaml:"reschedule_lead"`
	SweepCron      string        `yaml:"sweep_cron"`
	ReminderCron   string        `yaml:"reminder_cron"`
	ReminderBefore time.Duration `yaml:"reminder_before"`
}

type PaymentConfig struct {
	Provider string        `yaml:"provider"`
	Timeout  time.Duration `yaml:"timeout"`
	// MockDecline makes the mock gateway refuse every payment.
	MockDecline bool `yaml:"mock_decline"`
}

type EmailConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exchange string `yaml:"exchange"`
	URL      string `yaml:"-"` // AMQP_URL
}

type RateLimitConfig struct {
	BookingCooldown   time.Duration `yaml:"booking_cooldown"`
	BookingMaxPerHour int           `yaml:"booking_max_per_hour"`
	IPMaxPerHour      int           `yaml:"ip_max_per_hour"`
	TrustProxy        bool          `yaml:"trust_proxy"`
}

type Config struct {
	App struct {
		Name            string        `yaml:"name"`
		Environment     string        `yaml:"environment"`
		Port            int           `yaml:"port"`
		BaseURL         string        `yaml:"base_url"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		SecretKey       string        `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Booking   BookingConfig   `yaml:"booking"`
	Payment   PaymentConfig   `yaml:"payment"`
	Email     EmailConfig     `yaml:"email"`
	Events    EventsConfig    `yaml:"events"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Features struct {
		EnableMetrics bool `yaml:"enable_metrics"`
		EnableDebug   bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	cfg.Events.URL = os.Getenv("AMQP_URL")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes yaml configuration and fills defaults. It does not validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.ShutdownTimeout == 0 {
		c.App.ShutdownTimeout = 30 * time.Second
	}
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "Asia/Tehran"
	}
	if c.Booking.PendingHoldTTL == 0 {
		c.Booking.PendingHoldTTL = 15 * time.Minute
	}
	if c.Booking.RescheduleLead == 0 {
		c.Booking.RescheduleLead = 6 * time.Hour
	}
	if c.Booking.SweepCron == "" {
		c.Booking.SweepCron = "*/5 * * * *"
	}
	if c.Booking.ReminderCron == "" {
		c.Booking.ReminderCron = "*/15 * * * *"
	}
	if c.Booking.ReminderBefore == 0 {
		c.Booking.ReminderBefore = 24 * time.Hour
	}
	if c.Payment.Provider == "" {
		c.Payment.Provider = "mock"
	}
	if c.Payment.Timeout == 0 {
		c.Payment.Timeout = 10 * time.Second
	}
	if c.Events.Exchange == "" {
		c.Events.Exchange = "padelicious.events"
	}
	if c.RateLimit.BookingCooldown == 0 {
		c.RateLimit.BookingCooldown = 5 * time.Second
	}
	if c.RateLimit.BookingMaxPerHour == 0 {
		c.RateLimit.BookingMaxPerHour = 20
	}
	if c.RateLimit.IPMaxPerHour == 0 {
		c.RateLimit.IPMaxPerHour = 60
	}
}

// Location resolves the booking time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Booking.Timezone)
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	// Validate based on database driver
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid booking timezone %q: %w", c.Booking.Timezone, err)
	}
	if c.Booking.PendingHoldTTL < 0 || c.Booking.RescheduleLead < 0 {
		return fmt.Errorf("booking durations must not be negative")
	}
	// A hold must outlive the payment call or the sweep can cancel a paid booking.
	if c.Booking.PendingHoldTTL <= c.Payment.Timeout {
		return fmt.Errorf("booking pending_hold_ttl (%s) must exceed payment timeout (%s)", c.Booking.PendingHoldTTL, c.Payment.Timeout)
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Booking.SweepCron); err != nil {
		return fmt.Errorf("invalid booking sweep_cron: %w", err)
	}
	if _, err := parser.Parse(c.Booking.ReminderCron); err != nil {
		return fmt.Errorf("invalid booking reminder_cron: %w", err)
	}

	switch strings.ToLower(c.Payment.Provider) {
	case "mock":
	default:
		return fmt.Errorf("unsupported payment provider: %s", c.Payment.Provider)
	}

	if c.Email.Enabled {
		if c.Email.Region == "" || c.Email.Sender == "" {
			return fmt.Errorf("email region and sender are required when email is enabled")
		}
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("AMQP_URL is required when events are enabled")
	}
	if c.App.SecretKey == "" && c.App.Environment != "development" {
		return fmt.Errorf("APP_SECRET_KEY is required outside development")
	}

	return nil
}

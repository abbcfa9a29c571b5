package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var seasonPattern = regexp.MustCompile(`^(20[0-9]{2})(20[0-9]{2})$`)

// Config holds all application configuration
type Config struct {
	// League season the reference data belongs to, e.g. 20202021
	Season string `envconfig:"SEASON" required:"true"`

	// NHL stats API
	NHLAPIBaseURL             string        `envconfig:"NHL_API_BASE_URL" default:"https://statsapi.web.nhl.com/api/v1"`
	NHLAPITimeout             time.Duration `envconfig:"NHL_API_TIMEOUT" default:"15s"`
	NHLAPIMaxRetries          int           `envconfig:"NHL_API_MAX_RETRIES" default:"1"`
	NHLAPIPrefetchConcurrency int           `envconfig:"NHL_API_PREFETCH_CONCURRENCY" default:"8"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nhlstats"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nhlstats"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis (optional run lock)
	RedisEnabled  bool          `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string        `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int           `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RunLockTTL    time.Duration `envconfig:"RUN_LOCK_TTL" default:"2h"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Worker
	DailyFetchCron string `envconfig:"DAILY_FETCH_CRON" default:"0 10 * * *"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`

	// Goalie boxscore fallbacks. Upstream omits decision and save
	// percentage for some appearances; empty means store NULL.
	GoalieDefaultSavePct  string `envconfig:"GOALIE_DEFAULT_SAVE_PCT" default:"0"`
	GoalieDefaultDecision string `envconfig:"GOALIE_DEFAULT_DECISION" default:""`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	m := seasonPattern.FindStringSubmatch(c.Season)
	if m == nil {
		return fmt.Errorf("SEASON must look like 20202021, got %q", c.Season)
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	if second != first+1 {
		return fmt.Errorf("SEASON must span consecutive years, got %q", c.Season)
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if c.NHLAPIMaxRetries < 0 {
		return fmt.Errorf("NHL_API_MAX_RETRIES must be >= 0")
	}
	if c.NHLAPIPrefetchConcurrency < 1 {
		return fmt.Errorf("NHL_API_PREFETCH_CONCURRENCY must be >= 1")
	}

	if c.GoalieDefaultSavePct != "" {
		if _, err := strconv.ParseFloat(c.GoalieDefaultSavePct, 64); err != nil {
			return fmt.Errorf("GOALIE_DEFAULT_SAVE_PCT must be a number or empty: %w", err)
		}
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// SavePctDefault returns the configured goalie save percentage fallback.
// ok is false when the fallback is NULL.
func (c *Config) SavePctDefault() (value float64, ok bool) {
	if c.GoalieDefaultSavePct == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.GoalieDefaultSavePct, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or exits on error
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

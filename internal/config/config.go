package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Env variable names (documented for reference)
const (
	envVersion          = "APP_VERSION"
	envLogLevel         = "LOG_LEVEL"
	envTelegramToken    = "TELEGRAM_BOT_TOKEN"
	envOpenAIKey        = "OPENAI_API_KEY"
	envDataDir          = "DATA_DIRECTORY"
	envMaxProducts      = "MAX_PRODUCTS_PER_USER"
	envRateLimitReqs    = "RATE_LIMIT_REQUESTS"
	envRateLimitWindow  = "RATE_LIMIT_WINDOW" // Go duration string, e.g. "60s"
	envDashboardAddr    = "WEB_DASHBOARD_ADDR"
	envDashboardEnabled = "WEB_DASHBOARD_ENABLED"
)

// Config aggregates all runtime settings required by the application.
// All fields are immutable after MustLoad().
//
// Defaults let the bot start locally with only the two API tokens set;
// everything else is tuned for a single-host deployment with a local data
// directory. A .env file in the working directory is honored if present.
type Config struct {
	Version          string        // app semantic version or git SHA
	LogLevel         string        // debug, info, warn, error, fatal (zap levels)
	TelegramToken    string        // Telegram Bot API token
	OpenAIKey        string        // OpenAI API key for promo text generation
	DataDir          string        // root of users.json / stats.json / backups / logs
	MaxProducts      int           // per-user product cap, default 5
	RateLimitReqs    int           // allowed calls per user per window
	RateLimitWindow  time.Duration // rate limit window, default 60s
	DashboardAddr    string        // listen address for metrics + dashboard, default :8080
	DashboardEnabled bool          // mount the stats dashboard on the metrics mux
}

var (
	defaultVersion         = "dev"
	defaultLogLevel        = "info"
	defaultDataDir         = "data"
	defaultMaxProducts     = 5
	defaultRateLimitReqs   = 10
	defaultRateLimitWindow = time.Minute
	defaultDashboardAddr   = ":8080"
)

// MustLoad is a convenience wrapper around Load() that panics on error.
// Preferable in main() early startup where configuration problems are fatal.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads a .env file (if present) and environment variables, applies
// defaults, validates the result and returns a ready-to-use Config instance.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config

	cfg.Version = getEnv(envVersion, defaultVersion)
	cfg.LogLevel = getEnv(envLogLevel, defaultLogLevel)
	cfg.TelegramToken = os.Getenv(envTelegramToken) // required, no default
	cfg.OpenAIKey = os.Getenv(envOpenAIKey)         // required, no default
	cfg.DataDir = getEnv(envDataDir, defaultDataDir)
	cfg.DashboardAddr = getEnv(envDashboardAddr, defaultDashboardAddr)
	cfg.DashboardEnabled = getEnv(envDashboardEnabled, "true") == "true"

	var err error
	if cfg.MaxProducts, err = getEnvInt(envMaxProducts, defaultMaxProducts); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitReqs, err = getEnvInt(envRateLimitReqs, defaultRateLimitReqs); err != nil {
		return Config{}, err
	}

	if s := os.Getenv(envRateLimitWindow); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", envRateLimitWindow, err)
		}
		cfg.RateLimitWindow = d
	} else {
		cfg.RateLimitWindow = defaultRateLimitWindow
	}

	// Validation
	if len(cfg.TelegramToken) < 10 {
		return Config{}, fmt.Errorf("%s is required and must look like a real token", envTelegramToken)
	}
	if len(cfg.OpenAIKey) < 10 {
		return Config{}, fmt.Errorf("%s is required and must look like a real key", envOpenAIKey)
	}
	if cfg.MaxProducts < 1 || cfg.MaxProducts > 100 {
		return Config{}, fmt.Errorf("%s must be in 1..100", envMaxProducts)
	}
	if _, _, err := net.SplitHostPort(cfg.DashboardAddr); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", envDashboardAddr, err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return Config{}, fmt.Errorf("cannot create data directory %s: %w", cfg.DataDir, err)
	}
	return cfg, nil
}

// getEnv returns the value of the environment variable if set, otherwise def.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an integer env var, falling back to def when unset.
func getEnvInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	AppVersion  string
	StoreDriver string // "postgres" или "sqlite"
	DatabaseURL string
	SQLitePath  string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	APIRateLimit  int
	APIRateWindow time.Duration

	// Канонический часовой пояс для "сегодня" (sweep и валидация дат)
	Timezone         string
	TransitionPolicy string
	SweepEnabled     bool
	SweepAt          string // HH:MM в Timezone

	DefaultPageSize int
	MaxPageSize     int

	LogLevel string
	LogJSON  bool
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "8080"),
		AppVersion:       getEnv("APP_VERSION", "dev"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", "postgres")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       getEnv("SQLITE_PATH", "taskboard.db"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getInt("REDIS_DB", 0),
		APIRateLimit:     getInt("API_RATE_LIMIT", 120),
		APIRateWindow:    time.Duration(getInt("API_RATE_WINDOW_SECONDS", 60)) * time.Second,
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		TransitionPolicy: getEnv("TRANSITION_POLICY", "unguarded"),
		SweepEnabled:     os.Getenv("SWEEP_ENABLED") == "true",
		SweepAt:          getEnv("SWEEP_AT", "00:00"),
		DefaultPageSize:  getInt("DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:      getInt("MAX_PAGE_SIZE", 100),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogJSON:          os.Getenv("LOG_JSON") == "true",
	}

	logger.Init(cfg.LogLevel, cfg.LogJSON)

	switch cfg.StoreDriver {
	case "postgres":
		if cfg.DatabaseURL == "" {
			logger.Fatal("DATABASE_URL is not set")
		}
	case "sqlite":
	default:
		logger.Fatal("unsupported STORE_DRIVER", "driver", cfg.StoreDriver)
	}

	if _, err := ParseClock(cfg.SweepAt); err != nil {
		logger.Fatal("invalid SWEEP_AT", "value", cfg.SweepAt, "error", err)
	}

	return cfg
}

// RequireJWTSecret fails when JWT_SECRET is unset. Only binaries that mint or
// check tokens call it; the cron sweep runs without a secret.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt falls back to the default for unset, malformed or negative values.
func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return defaultValue
}

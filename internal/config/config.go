package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string
	DBPath   string
	LogLevel string

	// Worker pool executing fire-and-forget study-log writes.
	LogWorkerCount int
	LogQueueSize   int

	// Review scheduling.
	RequestRetention    float64
	MaximumIntervalDays int

	// Pomodoro defaults used when a profile has no stored settings.
	ShortBreakSeconds    int
	LongBreakSeconds     int
	CyclesUntilLongBreak int

	// Session length used to derive the session-count budget.
	SessionDurationMinutes int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                   envOr("ADDR", ":8080"),
		DBPath:                 envOr("DB_PATH", "file:studyflow.db"),
		LogLevel:               envOr("LOG_LEVEL", "INFO"),
		LogWorkerCount:         envIntOr("LOG_WORKER_COUNT", 1),
		LogQueueSize:           envIntOr("LOG_QUEUE_SIZE", 64),
		RequestRetention:       envFloatOr("REQUEST_RETENTION", 0.9),
		MaximumIntervalDays:    envIntOr("MAXIMUM_INTERVAL_DAYS", 36500),
		ShortBreakSeconds:      envIntOr("SHORT_BREAK_SECONDS", 5*60),
		LongBreakSeconds:       envIntOr("LONG_BREAK_SECONDS", 15*60),
		CyclesUntilLongBreak:   envIntOr("CYCLES_UNTIL_LONG_BREAK", 4),
		SessionDurationMinutes: envIntOr("SESSION_DURATION_MINUTES", 50),
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.LogWorkerCount <= 0 {
		return fmt.Errorf("LOG_WORKER_COUNT must be positive")
	}
	if c.LogQueueSize <= 0 {
		return fmt.Errorf("LOG_QUEUE_SIZE must be positive")
	}
	if c.RequestRetention <= 0 || c.RequestRetention >= 1 {
		return fmt.Errorf("REQUEST_RETENTION must be in (0, 1)")
	}
	if c.MaximumIntervalDays <= 0 {
		return fmt.Errorf("MAXIMUM_INTERVAL_DAYS must be positive")
	}
	if c.CyclesUntilLongBreak < 1 {
		return fmt.Errorf("CYCLES_UNTIL_LONG_BREAK must be at least 1")
	}
	if c.SessionDurationMinutes <= 0 {
		return fmt.Errorf("SESSION_DURATION_MINUTES must be positive")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %g", key, v, def)
	}
	return def
}

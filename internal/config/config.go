package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string `validate:"required"`
	DBPath            string `validate:"required"`
	LogLevel          string `validate:"oneof=DEBUG INFO WARN ERROR"`
	SessionTTLMinutes int    `validate:"gte=1"`
	SweepIntervalSec  int    `validate:"gte=1"`
	HistoryWorkers    int    `validate:"gte=1"`
	HistoryQueueSize  int    `validate:"gte=1"`
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":8080"),
		DBPath:            envOr("DB_PATH", "file:learntrack.db"),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		SessionTTLMinutes: envIntOr("SESSION_TTL_MINUTES", 60),
		SweepIntervalSec:  envIntOr("SWEEP_INTERVAL_SECONDS", 300),
		HistoryWorkers:    envIntOr("HISTORY_WORKER_COUNT", 1),
		HistoryQueueSize:  envIntOr("HISTORY_QUEUE_SIZE", 128),
	}
}

// Validate checks the configuration for values the server cannot start with.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid config: %s failed %q check (value %v)", e.Field(), e.Tag(), e.Value())
		}
		return err
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

package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/pickups-dashboard/internal/pickups/sources"
)

type AppConfig struct {
	// DataURL is the remote pickups CSV (plain or gzip).
	DataURL string `validate:"required,url"`

	// RowLimit bounds how many rows of the remote file are loaded.
	RowLimit int `validate:"gt=0"`

	// TimestampColumn names the pickup date-time column (matched case-insensitively).
	TimestampColumn string `validate:"required"`

	HTTPTimeout     time.Duration `validate:"gt=0"`
	FetchMaxRetries int           `validate:"gte=0"`

	DefaultHour    int `validate:"gte=0,lte=23"`
	RawPreviewRows int `validate:"gte=0"` // 0 = every row
	ExploreTopN    int `validate:"gt=0"`
	MaxUploadBytes int `validate:"gt=0"`

	// Session retention.
	SessionIdleTTL       time.Duration `validate:"gte=0"` // 0 = never expire
	SessionSweepInterval time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.DataURL = getenvDefault("DATA_URL", sources.DefaultDataURL)
	cfg.RowLimit = getenvInt("ROW_LIMIT", 10000)
	cfg.TimestampColumn = getenvDefault("TIMESTAMP_COLUMN", "date/time")
	cfg.FetchMaxRetries = getenvInt("FETCH_MAX_RETRIES", 0)
	cfg.DefaultHour = getenvInt("DEFAULT_HOUR", 17)
	cfg.RawPreviewRows = getenvInt("RAW_PREVIEW_ROWS", 0)
	cfg.ExploreTopN = getenvInt("EXPLORE_TOP_N", 20)
	cfg.MaxUploadBytes = getenvInt("MAX_UPLOAD_BYTES", 32<<20)
	cfg.Port = getenvDefault("PORT", "8080")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = getenvDuration("SESSION_IDLE_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Printf("INFO: ignoring invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

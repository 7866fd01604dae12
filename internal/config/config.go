package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-history/internal/weather"
)

var validate = validator.New()

type AppConfig struct {
	Port string `validate:"required,numeric"`

	// DatasetSource is a file path or http(s) URL. Empty selects the embedded dataset.
	DatasetSource       string
	DatasetFetchTimeout time.Duration `validate:"gt=0"`

	// WellKnownDir is served under /.well-known and receives openapi.json at startup.
	WellKnownDir string `validate:"required"`

	ConsistencyMode string `validate:"oneof=off warn strict"`

	// HeartbeatInterval controls the status log job (0 = disabled).
	HeartbeatInterval time.Duration `validate:"gte=0"`

	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	LogLevel string `validate:"oneof=debug info warn error"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or error loading it", slog.Any("error", err))
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            getenvDefault("PORT", "8080"),
		DatasetSource:   os.Getenv("DATASET_SOURCE"),
		WellKnownDir:    getenvDefault("WELLKNOWN_DIR", ".well-known"),
		ConsistencyMode: strings.ToLower(getenvDefault("CONSISTENCY_MODE", string(weather.ConsistencyWarn))),
		LogLevel:        strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
	}

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"DATASET_FETCH_TIMEOUT", "10s", &cfg.DatasetFetchTimeout},
		{"HEARTBEAT_INTERVAL", "5m", &cfg.HeartbeatInterval},
		{"READ_TIMEOUT", "10s", &cfg.ReadTimeout},
		{"WRITE_TIMEOUT", "10s", &cfg.WriteTimeout},
		{"SHUTDOWN_TIMEOUT", "10s", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v, err := getenvDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dest = v
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Consistency returns the configured dataset consistency mode.
func (c *AppConfig) Consistency() weather.ConsistencyMode {
	return weather.ConsistencyMode(c.ConsistencyMode)
}

// SlogLevel maps LogLevel onto slog levels.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Duration reads TOML strings such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

type BusConfig struct {
	HandlerTimeout Duration `toml:"handler_timeout"`
}

type Config struct {
	ServiceName    string    `toml:"service_name"`
	DatabaseURL    string    `toml:"database_url"`
	HTTPAddr       string    `toml:"http_addr"`
	LogLevel       string    `toml:"log_level"`
	Storage        string    `toml:"storage"`
	OTLPEndpoint   string    `toml:"otlp_endpoint"`
	ConnectTimeout Duration  `toml:"connect_timeout"`
	RecoveryWindow Duration  `toml:"recovery_window"`
	NotifyWorkers  int       `toml:"notify_workers"`
	Bus            BusConfig `toml:"bus"`
}

func defaults() Config {
	return Config{
		ServiceName:    "pubhub",
		HTTPAddr:       ":8080",
		LogLevel:       "info",
		Storage:        StoragePostgres,
		ConnectTimeout: Duration{time.Minute},
		RecoveryWindow: Duration{24 * time.Hour},
		NotifyWorkers:  4,
		Bus: BusConfig{
			HandlerTimeout: Duration{10 * time.Second},
		},
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// CONFIG_FILE if set, then environment variables.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.ServiceName, "SERVICE_NAME")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Storage, "STORAGE")
	setString(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if err := setInt(&cfg.NotifyWorkers, "NOTIFY_WORKERS"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Bus.HandlerTimeout, "BUS_HANDLER_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.RecoveryWindow, "RECOVERY_WINDOW"); err != nil {
		return err
	}
	return setDuration(&cfg.ConnectTimeout, "DB_CONNECT_TIMEOUT")
}

func (c Config) validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	if c.NotifyWorkers <= 0 {
		return fmt.Errorf("notify workers must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	dst.Duration = d
	return nil
}

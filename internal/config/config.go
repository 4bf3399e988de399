package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDBPath       = "lumen.db"
	defaultPageSize     = 20
	defaultLogLevel     = "info"
	defaultFetchTimeout = 10
	maxPageSize         = 100
)

// Config holds runtime settings for the CLI app.
type Config struct {
	DBPath              string `yaml:"db_path"`
	PageSize            int    `yaml:"page_size"`
	LogLevel            string `yaml:"log_level"`
	LogFile             string `yaml:"log_file"`
	UserID              string `yaml:"user_id"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
}

func Default() Config {
	return Config{
		DBPath:              defaultDBPath,
		PageSize:            defaultPageSize,
		LogLevel:            defaultLogLevel,
		FetchTimeoutSeconds: defaultFetchTimeout,
	}
}

// DefaultPath returns $LUMEN_CONFIG, or ~/.config/lumen/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("LUMEN_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "lumen", "config.yaml")
}

func Load() (Config, error) {
	return LoadFromFile(DefaultPath())
}

// LoadFromFile reads the YAML file at path over the defaults, then applies
// environment overrides and validates. A missing file is not an error.
func LoadFromFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv("LUMEN_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LUMEN_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LUMEN_PAGE_SIZE must be an integer: %s", v)
		}
		c.PageSize = n
	}
	if v := os.Getenv("LUMEN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LUMEN_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("LUMEN_USER_ID"); v != "" {
		c.UserID = v
	}
	return nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if c.PageSize < 1 || c.PageSize > maxPageSize {
		return fmt.Errorf("PageSize must be between 1 and %d: %d", maxPageSize, c.PageSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LogLevel must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.FetchTimeoutSeconds < 1 {
		return fmt.Errorf("FetchTimeoutSeconds must be positive: %d", c.FetchTimeoutSeconds)
	}
	return nil
}

func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

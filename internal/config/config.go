package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Port        string `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	JWTSecret   string `yaml:"jwt_secret"`
	AuthEnabled bool   `yaml:"auth_enabled"`
	RateLimit   int    `yaml:"rate_limit"`  // Requests per client per window
	RateWindow  string `yaml:"rate_window"` // Duration string like "1m"
	LogLevel    string `yaml:"log_level"`   // debug, info, warn, error
	LogFormat   string `yaml:"log_format"`  // json, text
	Version     string `yaml:"-"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:       ":8080",
		DBPath:     "./data/etell.db",
		JWTSecret:  "your-secret-key-change-in-production",
		RateLimit:  120,
		RateWindow: "1m",
		LogLevel:   "info",
		LogFormat:  "json",
		Version:    "dev",
	}
}

// Load 加载配置: defaults, then the optional CONFIG_FILE, then env vars
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("RATE_WINDOW"); v != "" {
		c.RateWindow = v
	}
	if v := os.Getenv("AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AUTH_ENABLED %q: %w", v, err)
		}
		c.AuthEnabled = enabled
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
		c.RateLimit = limit
	}
	return nil
}

// RateWindowDuration parses RateWindow, falling back to one minute
func (c *Config) RateWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.RateWindow)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

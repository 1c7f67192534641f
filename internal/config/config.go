package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "supersecret"

// Config is the application configuration. Values come from defaults, then
// an optional YAML file, then environment variables.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"` // debug | release | test
		// AllowedOrigins lists the browser origins accepted by CORS; empty
		// accepts any origin.
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // pgx | pq
		Host         string `yaml:"host"`
		Port         string `yaml:"port"`
		User         string `yaml:"user"`
		Password     string `yaml:"password"`
		Name         string `yaml:"name"`
		SSLMode      string `yaml:"sslmode"`
		TimeZone     string `yaml:"timezone"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		MaxIdleConns int    `yaml:"max_idle_conns"`
	} `yaml:"database"`

	JWT struct {
		Secret     string        `yaml:"secret"`
		AccessTTL  time.Duration `yaml:"access_ttl"`
		RefreshTTL time.Duration `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Log struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Stdout     bool   `yaml:"stdout"`
	} `yaml:"log"`

	Mail struct {
		SendgridAPIKey string        `yaml:"sendgrid_api_key"`
		FromName       string        `yaml:"from_name"`
		FromAddress    string        `yaml:"from_address"`
		ResetURLBase   string        `yaml:"reset_url_base"`
		ResetTokenTTL  time.Duration `yaml:"reset_token_ttl"`
	} `yaml:"mail"`
}

var current *Config

// Current returns the loaded configuration, or defaults when Load has not run.
func Current() *Config {
	if current == nil {
		cfg := Default()
		return &cfg
	}
	return current
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Server.Mode = "debug"

	cfg.Database.Driver = "pgx"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Password = "password"
	cfg.Database.Name = "smart_collector"
	cfg.Database.SSLMode = "disable"
	cfg.Database.TimeZone = "UTC"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.MaxIdleConns = 5

	cfg.JWT.Secret = defaultJWTSecret
	cfg.JWT.AccessTTL = 12 * time.Hour
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour

	cfg.Log.File = "./logs/app.log"
	cfg.Log.Level = "info"
	cfg.Log.MaxSizeMB = 10
	cfg.Log.MaxBackups = 7
	cfg.Log.MaxAgeDays = 7
	cfg.Log.Stdout = true

	cfg.Mail.FromName = "Smart Collector"
	cfg.Mail.FromAddress = "no-reply@smartcollector.local"
	cfg.Mail.ResetURLBase = "http://localhost:3000/reset-password"
	cfg.Mail.ResetTokenTTL = time.Hour
	return cfg
}

// Load reads .env (if present), the YAML file at path (if present) and the
// environment, validates the result and makes it the current configuration.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found – relying on env vars")
	}

	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	current = &cfg
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "pgx", "pq":
	default:
		return fmt.Errorf("database driver %q is not supported (use pgx or pq)", c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.Server.Mode == "release" && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in release mode")
	}
	if c.JWT.AccessTTL <= 0 || c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}

// DSN builds the lib/pq style connection string shared by both drivers.
func (c *Config) DSN() string {
	d := c.Database
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

func applyEnv(cfg *Config) error {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Mode = getEnv("GIN_MODE", cfg.Server.Mode)
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	cfg.Database.Driver = getEnv("DB_DRIVER", cfg.Database.Driver)
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Name = getEnv("DB_NAME", cfg.Database.Name)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.TimeZone = getEnv("DB_TIMEZONE", cfg.Database.TimeZone)

	cfg.JWT.Secret = getEnv("JWT_SECRET", cfg.JWT.Secret)

	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)

	cfg.Mail.SendgridAPIKey = getEnv("SENDGRID_API_KEY", cfg.Mail.SendgridAPIKey)
	cfg.Mail.FromAddress = getEnv("MAIL_FROM", cfg.Mail.FromAddress)
	cfg.Mail.ResetURLBase = getEnv("RESET_URL_BASE", cfg.Mail.ResetURLBase)

	var err error
	if cfg.Database.MaxOpenConns, err = getEnvInt("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns); err != nil {
		return err
	}
	if cfg.Database.MaxIdleConns, err = getEnvInt("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns); err != nil {
		return err
	}
	if cfg.JWT.AccessTTL, err = getEnvDuration("JWT_ACCESS_TTL", cfg.JWT.AccessTTL); err != nil {
		return err
	}
	if cfg.JWT.RefreshTTL, err = getEnvDuration("JWT_REFRESH_TTL", cfg.JWT.RefreshTTL); err != nil {
		return err
	}
	return nil
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

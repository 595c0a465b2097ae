// Package config loads runtime settings from the environment and an
// optional snippets.yaml file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sakif/snippet-manager/internal/auth"
)

type Config struct {
	HTTP struct {
		Port         int
		MaxBodyBytes int64
		CORSOrigins  []string
	}
	DB struct {
		Driver string
		DSN    string
	}
	JWT struct {
		Secret string
		TTL    time.Duration
	}
	Log struct {
		Level slog.Level
	}
}

// Load reads config from environment variables (SNIPPETS_ prefix, "." in
// keys becomes "_") and from a YAML file.
//
// file may name a config file explicitly; when empty, snippets.yaml in the
// working directory is used if present. The unprefixed PORT, JWT_SECRET
// and DB_PATH variables are honoured as fallbacks.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SNIPPETS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// BindEnv with explicit names checks them in order, so the prefixed
	// variable wins over the legacy one.
	_ = v.BindEnv("http.port", "SNIPPETS_HTTP_PORT", "PORT")
	_ = v.BindEnv("jwt.secret", "SNIPPETS_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("db.dsn", "SNIPPETS_DB_DSN", "DB_PATH")

	v.SetDefault("http.port", 5000)
	v.SetDefault("http.max_body_bytes", 16<<20)
	v.SetDefault("http.cors_origins", []string{"*"})
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "data/snippets.db")
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("log.level", "info")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", file, err)
		}
	} else {
		v.SetConfigName("snippets")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: reading snippets.yaml: %w", err)
			}
		}
	}

	cfg := &Config{}
	cfg.HTTP.Port = v.GetInt("http.port")
	cfg.HTTP.MaxBodyBytes = v.GetInt64("http.max_body_bytes")
	cfg.HTTP.CORSOrigins = splitList(v.GetStringSlice("http.cors_origins"))
	cfg.DB.Driver = strings.TrimSpace(v.GetString("db.driver"))
	cfg.DB.DSN = strings.TrimSpace(v.GetString("db.dsn"))
	cfg.JWT.Secret = v.GetString("jwt.secret")

	ttl, err := time.ParseDuration(v.GetString("jwt.ttl"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNIPPETS_JWT_TTL: %w", err)
	}
	cfg.JWT.TTL = ttl

	if err := cfg.Log.Level.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("invalid SNIPPETS_LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("SNIPPETS_HTTP_PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("SNIPPETS_HTTP_MAX_BODY_BYTES must be positive")
	}
	if c.DB.Driver == "" {
		return fmt.Errorf("SNIPPETS_DB_DRIVER is required (sqlite, postgres)")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("SNIPPETS_DB_DSN is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("SNIPPETS_JWT_SECRET (or JWT_SECRET) is required")
	}
	if len(c.JWT.Secret) < auth.MinSecretLength {
		return fmt.Errorf("SNIPPETS_JWT_SECRET must be at least %d characters", auth.MinSecretLength)
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("SNIPPETS_JWT_TTL must be positive")
	}
	return nil
}

// splitList accepts both YAML lists and comma-separated env values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

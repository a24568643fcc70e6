// Package config loads the service settings from the environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all settings for the API process.
type Config struct {
	Host               string         `mapstructure:"host"`
	Port               int            `mapstructure:"port" validate:"gt=0,lt=65536"`
	LogLevel           string         `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	CORSAllowedOrigins []string       `mapstructure:"cors_allowed_origins"`
	ShutdownTimeout    time.Duration  `mapstructure:"shutdown_timeout" validate:"gt=0"`
	Database           DatabaseConfig `mapstructure:",squash"`
}

// DatabaseConfig describes how to reach the relational store. URL wins when
// set; otherwise a Postgres DSN is assembled from the individual parts.
type DatabaseConfig struct {
	URL      string `mapstructure:"database_url"`
	Host     string `mapstructure:"db_host"`
	Port     string `mapstructure:"db_port"`
	Username string `mapstructure:"db_username"`
	Password string `mapstructure:"db_password"`
	Name     string `mapstructure:"db_database"`
}

// DSN returns the connection string for the configured database.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.Username, c.Password, c.Name, c.Port)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

var keys = []string{
	"host",
	"port",
	"log_level",
	"cors_allowed_origins",
	"shutdown_timeout",
	"database_url",
	"db_host",
	"db_port",
	"db_username",
	"db_password",
	"db_database",
}

// Load reads configuration from environment variables, applies defaults and
// validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("cors_allowed_origins", []string{"https://*", "http://*"})
	v.SetDefault("shutdown_timeout", 5*time.Second)

	for _, key := range keys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Database.DSN() == "" {
		return nil, fmt.Errorf("invalid config: DATABASE_URL or DB_HOST must be set")
	}

	return &cfg, nil
}

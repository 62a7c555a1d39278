// Package config provides configuration management for the rating service.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Notify    NotifyConfig    `mapstructure:"notify"`
	Season    SeasonConfig    `mapstructure:"season" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port                  int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort            int     `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ScoreToken            string  `mapstructure:"score_token"`
	WriteRateLimit        float64 `mapstructure:"write_rate_limit" validate:"required,gt=0"`
	WriteRateBurst        int     `mapstructure:"write_rate_burst" validate:"required,gt=0"`
	EnableLiveStream      bool    `mapstructure:"enable_live_stream"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents scheduled maintenance jobs
type SchedulerConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	PredictionRefresh string `mapstructure:"prediction_refresh"`
}

// NotifyConfig represents the score update webhook publisher
type NotifyConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	WebhookURL string  `mapstructure:"webhook_url" validate:"omitempty,url"`
	RateLimit  float64 `mapstructure:"rate_limit"`
}

// SeasonConfig pins the season the dashboard serves by default
type SeasonConfig struct {
	Year int `mapstructure:"year" validate:"required,gt=2000"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

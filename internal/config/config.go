// Package config provides configuration management for the backtest dashboard service.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Selection SelectionConfig `mapstructure:"selection" validate:"required"`
	RefData   RefDataConfig   `mapstructure:"refdata" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
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
	Port                int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int     `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int     `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	CORSAllowOrigin     string  `mapstructure:"cors_allow_origin"`
	RateLimitPerSecond  float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	RateLimitBurst      int     `mapstructure:"rate_limit_burst" validate:"required,gt=0"`
}

// SelectionConfig holds the default candidate-selection thresholds. Query
// parameters override these per request; absent parameters fall back here so
// the default substitution is visible in one typed place.
type SelectionConfig struct {
	MinSharpe       float64 `mapstructure:"min_sharpe" validate:"required,gt=0"`
	MinProfitFactor float64 `mapstructure:"min_pf" validate:"required,gt=0"`
	MaxDrawdown     float64 `mapstructure:"max_dd" validate:"required,gt=0"`
	MinTrades       int     `mapstructure:"min_trades" validate:"required,gt=0"`
	MinCAGR         float64 `mapstructure:"min_cagr" validate:"required,gt=0"`
}

// RefDataConfig controls the in-memory reference data cache (symbols and
// timeframe weights)
type RefDataConfig struct {
	TTLSeconds      int    `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	RefreshSchedule string `mapstructure:"refresh_schedule" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
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

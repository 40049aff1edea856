// internal/common/config/config.go
package config

import (
	"fmt"

	"sms-dispatcher/internal/common/errors"
)

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	AWS     AWSConfig     `mapstructure:"aws"`
	History HistoryConfig `mapstructure:"history"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// Backend selects the messaging variant: "sns" or "pinpoint".
	Backend string `mapstructure:"backend"`
}

// AWSConfig holds the resolved credentials and addressing parameters needed
// to reach a backend. Immutable after Load.
type AWSConfig struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`

	Pinpoint struct {
		// ProjectID identifies the Pinpoint application. Required only by
		// the targeted-messaging backend.
		ProjectID string `mapstructure:"project_id"`
	} `mapstructure:"pinpoint"`
}

// Validate checks that the credentials required for any send are present.
// Runs before any network call is attempted.
func (a AWSConfig) Validate() error {
	if a.AccessKeyID == "" {
		return errors.NewConfigurationError("AWS_ACCESS_KEY_ID is not set")
	}
	if a.SecretAccessKey == "" {
		return errors.NewConfigurationError("AWS_SECRET_ACCESS_KEY is not set")
	}
	return nil
}

// HistoryConfig holds settings for the optional delivery log and sent cache.
type HistoryConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MetricsConfig holds settings for the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

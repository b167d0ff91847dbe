package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Secrets    SecretsConfig
	Connectors ConnectorsConfig
	Logger     LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// SecretsConfig selects and configures the credential store backend.
type SecretsConfig struct {
	// Backend: "vault", "aws", or "local"
	Backend string

	// Vault settings
	VaultAddress string
	VaultToken   string

	// AWS settings
	AWSRegion string
}

// ConnectorsConfig holds connector-wide settings.
type ConnectorsConfig struct {
	// Environment: "sandbox" or "production"
	Environment string
	// Request timeout in seconds
	Timeout int
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort: getEnvAsInt("METRICS_PORT", 9090),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "payment_connectors"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
			MaxConns: int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns: int32(getEnvAsInt("DB_MIN_CONNS", 5)),
		},
		Secrets: SecretsConfig{
			Backend:      getEnv("SECRETS_BACKEND", "local"),
			VaultAddress: getEnv("VAULT_ADDR", ""),
			VaultToken:   getEnv("VAULT_TOKEN", ""),
			AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		},
		Connectors: ConnectorsConfig{
			Environment: getEnv("CONNECTOR_ENVIRONMENT", "sandbox"),
			Timeout:     getEnvAsInt("CONNECTOR_TIMEOUT", 30),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}
	switch cfg.Secrets.Backend {
	case "vault":
		if cfg.Secrets.VaultAddress == "" {
			return nil, fmt.Errorf("VAULT_ADDR is required for the vault backend")
		}
	case "aws", "local":
	default:
		return nil, fmt.Errorf("unsupported secrets backend: %s", cfg.Secrets.Backend)
	}
	switch cfg.Connectors.Environment {
	case "sandbox", "production":
	default:
		return nil, fmt.Errorf("unsupported connector environment: %s", cfg.Connectors.Environment)
	}

	return cfg, nil
}

// ConnectionString returns PostgreSQL connection string
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

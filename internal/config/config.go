package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	// ShutdownTimeout bounds graceful shutdown of both servers.
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address string // e.g. ":5000"
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // e.g. ":50051"
}

// Load reads configuration from the environment, after merging an optional
// .env file from the working directory. Variables already set in the
// environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from environment variables with defaults and
// validates it.
func FromEnv() (*Config, error) {
	shutdownSecs, err := getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 5)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "users.db"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":5000"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		ShutdownTimeout: time.Duration(shutdownSecs) * time.Second,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Path == "" {
		return errors.New("DB_PATH must not be empty")
	}
	if _, _, err := net.SplitHostPort(c.HTTP.Address); err != nil {
		return fmt.Errorf("invalid HTTP_ADDRESS %q: %w", c.HTTP.Address, err)
	}
	if _, _, err := net.SplitHostPort(c.GRPC.Address); err != nil {
		return fmt.Errorf("invalid GRPC_ADDRESS %q: %w", c.GRPC.Address, err)
	}
	if c.HTTP.Address == c.GRPC.Address {
		return fmt.Errorf("HTTP_ADDRESS and GRPC_ADDRESS must differ (both %q)", c.HTTP.Address)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, shutdown: %s}",
		c.Database.Path, c.HTTP.Address, c.GRPC.Address, c.ShutdownTimeout)
}

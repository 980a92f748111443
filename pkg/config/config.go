package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// StorageConfig holds the on-disk layout of the registry database and
// the per-client database directory.
type StorageConfig struct {
	// Dir is the directory holding one SQLite file per client.
	Dir string
	// RegistryPath is the shared clients database file.
	RegistryPath string
	// BusyTimeout is passed to SQLite so concurrent writers block
	// instead of failing immediately with SQLITE_BUSY.
	BusyTimeout time.Duration
	// LogLevel controls gorm statement logging.
	LogLevel logger.LogLevel
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	Server      ServerConfig
	Log         LogConfig
	Storage     StorageConfig
}

// Load loads configuration from environment variables, with an optional
// .env file.
func Load(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	config := &Config{
		ServiceName: serviceName,
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Dir:          getEnv("CLIENT_DB_DIR", "client_databases"),
			RegistryPath: getEnv("REGISTRY_DB_PATH", "gst_clients.db"),
			BusyTimeout:  getEnvAsDuration("DB_BUSY_TIMEOUT", 5*time.Second),
			LogLevel:     getEnvAsLogLevel("DB_LOG_LEVEL", logger.Warn),
		},
	}

	return config, nil
}

// LogConfig returns the configuration as zap fields for startup logging.
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("server_port", c.Server.Port),
		zap.String("registry_db", c.Storage.RegistryPath),
		zap.String("client_db_dir", c.Storage.Dir),
	}
}

// RegistryDir returns the directory containing the registry database.
func (c *StorageConfig) RegistryDir() string {
	return filepath.Dir(c.RegistryPath)
}

// Helper function to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as durations
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variables as gorm log levels
func getEnvAsLogLevel(key string, defaultValue logger.LogLevel) logger.LogLevel {
	switch getEnv(key, "") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	default:
		return defaultValue
	}
}

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	BotToken     string
	HTTPAddr     string
	VocabSource  string
	Scheduler    string
	ReminderCron string
	LogLevel     string
	Store        StoreConfig
	Database     DatabaseConfig
}

// StoreConfig selects where review progress is kept
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:     os.Getenv("BOT_TOKEN"),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		VocabSource:  getEnv("VOCAB_SOURCE", "vocab-data.json"),
		Scheduler:    strings.ToLower(getEnv("SCHEDULER", "sm2")),
		ReminderCron: getEnv("REMINDER_CRON", "0 9 * * *"),
		LogLevel:     strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
			SQLitePath: getEnv("SQLITE_PATH", "data/lexicards.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "lexicards"),
			User:     getEnv("DB_USER", "lexicards"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	// Validate required fields
	switch cfg.Scheduler {
	case "sm2", "again", "leveling":
	default:
		return nil, fmt.Errorf("SCHEDULER must be one of sm2, again, leveling, got %q", cfg.Scheduler)
	}

	switch cfg.Store.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be sqlite or postgres, got %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// RequireBotToken fails when the Telegram token is missing
func (c *Config) RequireBotToken() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	return nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

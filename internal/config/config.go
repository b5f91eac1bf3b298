package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	App      AppConfig
	Program  ProgramConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig holds the realtime notification channel settings
type RedisConfig struct {
	URL string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	JWTSecret string
	Env       string
	// Emails granted admin tokens at authentication time. Admin access
	// bootstraps from configuration since the API has no superuser row.
	AdminEmails []string
}

// ProgramConfig holds the ambassador program business rules that are
// tunable without a deploy.
type ProgramConfig struct {
	// Days after a sale before its pending commission becomes payable,
	// covering the refund window.
	EligibilityDays int
	// Percent withheld from gross commission when aggregating payouts.
	WithholdingPercent float64
	// Leaderboard size and tie-break rule for equal points.
	// Supported tie-breaks: "enrolled_at" (earliest enrollment first),
	// "lifetime_sales" (highest sales first).
	LeaderboardSize     int
	LeaderboardTieBreak string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "ambassador_program"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "localhost:6379"),
		},
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		App: AppConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			Env:         getEnv("APP_ENV", "development"),
			AdminEmails: getEnvList("ADMIN_EMAILS"),
		},
		Program: ProgramConfig{
			EligibilityDays:     getEnvInt("COMMISSION_ELIGIBILITY_DAYS", 7),
			WithholdingPercent:  getEnvFloat("PAYOUT_WITHHOLDING_PERCENT", 0),
			LeaderboardSize:     getEnvInt("LEADERBOARD_SIZE", 10),
			LeaderboardTieBreak: getEnv("LEADERBOARD_TIE_BREAK", "enrolled_at"),
		},
	}

	// Validate required fields
	if config.App.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return config, nil
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvList parses a comma-separated environment variable into a
// trimmed, lowercased slice. Empty entries are dropped.
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

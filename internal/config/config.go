package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Market    MarketConfig
	Advisor   AdvisorConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketConfig holds market synchronization configuration
type MarketConfig struct {
	// Volatility is the relative perturbation range used by the price
	// simulator, must be in (0,1).
	Volatility float64
	// SyncSchedule is a cron expression for the periodic sync pass.
	SyncSchedule string
}

// AdvisorConfig holds AI advisory service configuration.
// An empty APIKey disables the advisory strategy entirely.
type AdvisorConfig struct {
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond int
}

// RateLimitConfig holds per-user request quota configuration
// for signal generation.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	volatility, err := getEnvFloat("MARKET_VOLATILITY", 0.02)
	if err != nil {
		return nil, err
	}
	if volatility <= 0 || volatility >= 1 {
		return nil, fmt.Errorf("MARKET_VOLATILITY must be in (0,1), got %v", volatility)
	}

	maxRequests, err := getEnvInt("RATE_LIMIT_MAX_REQUESTS", 5)
	if err != nil {
		return nil, err
	}

	windowMinutes, err := getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	advisorRPS, err := getEnvInt("ADVISOR_REQUESTS_PER_SECOND", 2)
	if err != nil {
		return nil, err
	}

	advisorTimeoutSeconds, err := getEnvInt("ADVISOR_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/trading_signals.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Market: MarketConfig{
			Volatility:   volatility,
			SyncSchedule: getEnv("MARKET_SYNC_SCHEDULE", "@every 5m"),
		},
		Advisor: AdvisorConfig{
			APIKey:            getEnv("ADVISOR_API_KEY", ""),
			Model:             getEnv("ADVISOR_MODEL", "gpt-4o-mini"),
			Timeout:           time.Duration(advisorTimeoutSeconds) * time.Second,
			RequestsPerSecond: advisorRPS,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: maxRequests,
			Window:      time.Duration(windowMinutes) * time.Minute,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return parsed, nil
}

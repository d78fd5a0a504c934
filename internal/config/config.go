package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Market Data
	Polygon PolygonConfig

	// Filesystem layout
	Paths PathsConfig
}

// PolygonConfig holds Polygon.io REST API configuration
type PolygonConfig struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond int
	Adjusted          bool
	IntradayChunkDays int
}

// PathsConfig holds cache and results directories
type PathsConfig struct {
	CacheDir     string
	ResultsDir   string
	VersionsFile string
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory or parent directories
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Polygon: PolygonConfig{
			APIKey:            getEnv("POLYGON_API_KEY", ""),
			BaseURL:           getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
			RequestsPerSecond: getEnvAsInt("POLYGON_REQUESTS_PER_SECOND", 4),
			Adjusted:          getEnvAsBool("POLYGON_ADJUSTED", true),
			IntradayChunkDays: getEnvAsInt("POLYGON_INTRADAY_CHUNK_DAYS", 7),
		},
		Paths: PathsConfig{
			CacheDir:     getEnv("CACHE_DIR", "cache"),
			ResultsDir:   getEnv("RESULTS_DIR", "results"),
			VersionsFile: getEnv("SIGNAL_VERSIONS_FILE", "data/signal-versions.json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Polygon.BaseURL == "" {
		return fmt.Errorf("POLYGON_BASE_URL is required")
	}
	if c.Polygon.RequestsPerSecond <= 0 {
		return fmt.Errorf("POLYGON_REQUESTS_PER_SECOND must be positive")
	}
	if c.Polygon.IntradayChunkDays <= 0 {
		return fmt.Errorf("POLYGON_INTRADAY_CHUNK_DAYS must be positive")
	}
	if c.Paths.CacheDir == "" {
		return fmt.Errorf("CACHE_DIR is required")
	}
	if c.Paths.ResultsDir == "" {
		return fmt.Errorf("RESULTS_DIR is required")
	}
	return nil
}

// DefaultTickers returns the built-in universe used when no tickers are given
func DefaultTickers() []string {
	return []string{
		"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "META", "TSLA", "AMD",
		"NFLX", "CRM", "ORCL", "AVGO", "ADBE", "INTC", "PYPL",
		"SPY", "QQQ", "IWM", "DIA", "SOFI",
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/akarmiris/riskalloc/internal/modules/risk"
)

// Config holds application configuration
type Config struct {
	Port         int
	DevMode      bool
	DatabasePath string
	LogLevel     string

	// Watchlist source for scheduled runs: a CSV file or a directory of
	// per-symbol history databases. At most one is used; CSV wins.
	WatchlistCSV string
	HistoryDir   string

	// Pipeline defaults applied to scheduled runs.
	PortfolioWorth float64
	Confidence     float64
	Simulations    int

	// Cron expressions with a seconds field; empty disables the job.
	AnalysisSchedule    string
	MaintenanceSchedule string
	RetainRuns          int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvAsInt("PORT", 8001),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		DatabasePath:        getEnv("DATABASE_PATH", "./data/riskalloc.db"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		WatchlistCSV:        getEnv("WATCHLIST_CSV", ""),
		HistoryDir:          getEnv("HISTORY_DIR", ""),
		PortfolioWorth:      getEnvAsFloat("PORTFOLIO_WORTH", 10000),
		Confidence:          getEnvAsFloat("CONFIDENCE", 0.95),
		Simulations:         getEnvAsInt("SIMULATIONS", 1000),
		AnalysisSchedule:    getEnv("ANALYSIS_SCHEDULE", ""),
		MaintenanceSchedule: getEnv("MAINTENANCE_SCHEDULE", ""),
		RetainRuns:          getEnvAsInt("RETAIN_RUNS", 100),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present and sane
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.PortfolioWorth <= 0 {
		return fmt.Errorf("PORTFOLIO_WORTH must be positive, got %v", c.PortfolioWorth)
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("CONFIDENCE must be in (0, 1), got %v", c.Confidence)
	}
	if c.Simulations < 1 || c.Simulations > risk.MaxSimulations {
		return fmt.Errorf("SIMULATIONS must be between 1 and %d, got %d", risk.MaxSimulations, c.Simulations)
	}
	if c.RetainRuns < 1 {
		return fmt.Errorf("RETAIN_RUNS must be at least 1, got %d", c.RetainRuns)
	}
	if c.AnalysisSchedule != "" && c.WatchlistCSV == "" && c.HistoryDir == "" {
		return fmt.Errorf("ANALYSIS_SCHEDULE needs WATCHLIST_CSV or HISTORY_DIR")
	}

	return nil
}

// WatchlistSource returns the configured source label for scheduled runs.
func (c *Config) WatchlistSource() string {
	if c.WatchlistCSV != "" {
		return "csv:" + c.WatchlistCSV
	}
	if c.HistoryDir != "" {
		return "history:" + c.HistoryDir
	}
	return ""
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for the history database and snapshots
	HistoryDB string // Path to the SQLite price-history database
	LogLevel  string
	Pretty    bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Determine data directory:
	// 1. FACTORLAB_DATA_DIR environment variable
	// 2. Default to ./data
	// Always resolve to an absolute path and ensure it exists.
	dataDir := getEnv("FACTORLAB_DATA_DIR", "data")
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory to absolute path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", absDataDir, err)
	}

	historyDB := getEnv("FACTORLAB_HISTORY_DB", "")
	if historyDB == "" {
		historyDB = filepath.Join(absDataDir, "history.db")
	}

	return &Config{
		DataDir:   absDataDir,
		HistoryDB: historyDB,
		LogLevel:  getEnv("FACTORLAB_LOG_LEVEL", "info"),
		Pretty:    getEnv("FACTORLAB_LOG_PRETTY", "true") == "true",
	}, nil
}

// getEnv retrieves an environment variable value, returning a fallback if
// the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

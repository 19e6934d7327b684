package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	PGURL     string
	Port      string
	DataDir   string
	YFBaseURL string
}

// Load reads configuration from environment variables, with .env support
func Load() (*Config, error) {
	// Ignore error: a missing .env file is fine, env vars may be set directly
	_ = godotenv.Load()

	pgURL := os.Getenv("PG_URL")
	if pgURL == "" {
		return nil, fmt.Errorf("PG_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	return &Config{
		PGURL:     pgURL,
		Port:      port,
		DataDir:   dataDir,
		YFBaseURL: os.Getenv("YF_BASE_URL"),
	}, nil
}

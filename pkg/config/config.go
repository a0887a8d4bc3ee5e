package config

import (
	"os"
	"strconv"

	// Load environment variables from a .env file when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Import   ImportConfig
	Tools    ToolsConfig
	Database DatabaseConfig
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	BufferDays      int
	FuzzyEnabled    bool
	FuzzyThreshold  float64
	ReviewThreshold float64
	MaxAmount       float64
}

// ToolsConfig points at the external binaries the extractors shell out to.
type ToolsConfig struct {
	QPDFPath      string
	TesseractPath string
}

type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Import: ImportConfig{
			BufferDays:      getEnvAsInt("IMPORT_BUFFER_DAYS", 2),
			FuzzyEnabled:    getEnvAsBool("IMPORT_FUZZY_ENABLED", false),
			FuzzyThreshold:  getEnvAsFloat("IMPORT_FUZZY_THRESHOLD", 0.9),
			ReviewThreshold: getEnvAsFloat("IMPORT_REVIEW_THRESHOLD", 0.7),
			MaxAmount:       getEnvAsFloat("IMPORT_MAX_AMOUNT", 1_000_000),
		},
		Tools: ToolsConfig{
			QPDFPath:      getEnv("QPDF_PATH", "qpdf"),
			TesseractPath: getEnv("TESSERACT_PATH", "tesseract"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

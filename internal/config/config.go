package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Fixed locations of the calendar input and the report output.
const (
	InputPath  = "path_to_your_file.ics"
	OutputPath = "output.xlsx"
)

type envConfig struct {
	LOG_FILE_PATH         string
	LOG_LEVEL             string
	REPORT_WIDTH_MODE     string
	REPORT_COMPOSE_STYLES bool
	REPORT_LAYOUT_PATH    string
}

// DefaultEnvConfig holds the loaded configuration.
var DefaultEnvConfig = envConfig{
	LOG_LEVEL:         "info",
	REPORT_WIDTH_MODE: "runes",
}

// LoadEnvConfig loads an optional .env file and reads the environment.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := envConfig{
		LOG_FILE_PATH:      os.Getenv("LOG_FILE_PATH"),
		LOG_LEVEL:          getEnv("LOG_LEVEL", "info"),
		REPORT_WIDTH_MODE:  getEnv("REPORT_WIDTH_MODE", "runes"),
		REPORT_LAYOUT_PATH: os.Getenv("REPORT_LAYOUT_PATH"),
	}

	if v := os.Getenv("REPORT_COMPOSE_STYLES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("REPORT_COMPOSE_STYLES: %w", err)
		}
		cfg.REPORT_COMPOSE_STYLES = b
	}

	DefaultEnvConfig = cfg
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

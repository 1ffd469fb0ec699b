package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"fjacquet/coa-xml/internal/logging"

	"github.com/joho/godotenv"
)

var once sync.Once

// ConfigureLogging sets up logging based on the LOG_LEVEL and LOG_FORMAT
// environment variables and returns the configured logger
func ConfigureLogging() logging.Logger {
	return logging.NewLogrusAdapter(
		strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		strings.ToLower(GetEnv("LOG_FORMAT", "text")),
	)
}

// FindEnvFile returns the .env file of the current directory or of its
// parent, or "" when neither exists.
func FindEnvFile() string {
	for _, envFile := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(envFile); err == nil {
			return envFile
		}
	}
	return ""
}

// LoadEnv loads environment variables from .env file if it exists. Variables
// already set in the environment win.
func LoadEnv(logger logging.Logger) {
	once.Do(func() {
		if logger == nil {
			logger = logging.Discard()
		}
		envFile := FindEnvFile()
		if envFile == "" {
			logger.Debug("No .env file found, using environment variables")
			return
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.WithError(err).Warn("Error loading .env file", logging.F(logging.FieldFile, envFile))
			return
		}
		logger.Debug("Loaded environment variables", logging.F(logging.FieldFile, envFile))
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}

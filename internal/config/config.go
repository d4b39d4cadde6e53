// Package config loads application configuration from .env files and
// environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Port        int
	DatabaseURL string
	RulesPath   string
	LogDir      string
}

// Load reads configuration from a .env file in the working directory (if
// present) and the environment. Every field has a working default so the
// binary runs with no configuration at all.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on environment variables")
	}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	cfg := &AppConfig{
		Port:        port,
		DatabaseURL: getEnv("DATABASE_URL", "file:snagtrack.db?_pragma=foreign_keys(1)"),
		RulesPath:   getEnv("RULES_PATH", ""),
		LogDir:      getEnv("LOGS_FOLDER", ""),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

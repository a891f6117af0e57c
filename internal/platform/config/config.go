package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DBPath       string
	Port         string
	IsProduction bool
	LogLevel     string
	DefaultVenue string
	RateLimit    string // ulule/limiter formatted rate, e.g. "60-M"
}

// LoadConfig loads configuration from environment variables and a .env file
// if present. Every key has a working default; a missing environment is not
// an error.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DB_PATH", "ledger.db")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DEFAULT_VENUE", "")
	viper.SetDefault("RATE_LIMIT", "120-M")

	viper.AutomaticEnv()

	cfg := &Config{
		DBPath:       viper.GetString("DB_PATH"),
		Port:         viper.GetString("PORT"),
		IsProduction: viper.GetBool("IS_PRODUCTION"),
		LogLevel:     viper.GetString("LOG_LEVEL"),
		DefaultVenue: viper.GetString("DEFAULT_VENUE"),
		RateLimit:    viper.GetString("RATE_LIMIT"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "ledger.db"
		log.Printf("Warning: DB_PATH is empty. Defaulting to %s\n", cfg.DBPath)
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT is empty. Defaulting to %s\n", cfg.Port)
	}

	return cfg, nil
}

package config

import (
	"log"
	"os"
	"strings"
)

const (
	defaultDBPath = "./dev.db"
	defaultPort   = "8080"
	defaultEnv    = "development"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env    string
	DBPath string
	Port   string
	Seed   bool
}

// IsDev reports whether the app runs outside production.
func (c Config) IsDev() bool {
	return c.Env != "production"
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	if err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: could not read .env: %v", err)
	}

	cfg := Config{
		Env:    strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		DBPath: os.Getenv("DB_PATH"),
		Port:   strings.TrimPrefix(os.Getenv("PORT"), ":"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	switch strings.ToLower(strings.TrimSpace(os.Getenv("SEED"))) {
	case "1", "true", "yes":
		cfg.Seed = true
	case "0", "false", "no":
		cfg.Seed = false
	default:
		cfg.Seed = cfg.IsDev()
	}

	return cfg
}

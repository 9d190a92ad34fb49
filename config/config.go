package config

import (
	"os"
	"strconv"
)

const defaultMaxUploadSize = 10 * 1024 * 1024 // 10 MiB

// Config holds all runtime settings. It is loaded once at startup and
// threaded into components at construction time instead of being read from
// the environment at call time.
type Config struct {
	// Database
	DBDriver    string // "sqlite" or "mysql"
	DatabaseURL string // file path for sqlite, DSN for mysql

	// Uploads
	UploadDir     string
	MaxUploadSize int64

	// Optional prefix for building absolute links
	BaseAPIURL string

	// Server
	Port string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:   getEnv("DATABASE_URL", "data.db"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadSize: getEnvInt64("MAX_UPLOAD_SIZE", defaultMaxUploadSize),
		BaseAPIURL:    getEnv("BASE_API_URL", ""),
		Port:          getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

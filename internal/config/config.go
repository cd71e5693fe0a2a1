package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
)

// MaxUploadBytes caps the whole multipart request body. Submissions above
// this are rejected before any file is processed.
const MaxUploadBytes = 50 << 20 // 50 MB

type Config struct {
	Port        string
	DatabaseDSN string // optional; empty means embedded SQLite only
	SQLitePath  string
	UploadRoot  string
	Env         string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "5000")
	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "arredo.db")
	cfg.UploadRoot = getEnv("UPLOAD_ROOT", filepath.Join("static", "uploads"))
	cfg.Env = getEnv("APP_ENV", "development")
	return cfg
}

// ImagesDir is the subdirectory for stored image files.
func (c Config) ImagesDir() string { return filepath.Join(c.UploadRoot, "images") }

// VideosDir is the subdirectory for stored video files.
func (c Config) VideosDir() string { return filepath.Join(c.UploadRoot, "videos") }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean env var")
			return def
		}
		return b
	}
	return def
}

// File path: internal/config/config.go
// Package config loads the environment/flag configuration shared by the
// server and CLI entrypoints, following the teacher's cmd/cwa flag-and-env
// fallback pattern but routed through viper so both binaries resolve the
// same keys from flags, environment variables, and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the server and ingestion CLI need. Fields are
// resolved in order: explicit flag > environment variable > default.
type Config struct {
	DatabaseURL   string
	BinPath       string
	HashSeedHi    uint64
	HashSeedLo    uint64
	WindowSize    int
	ServerAddress string
	CORSOrigins   []string
	AnchorCap     int64

	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
}

// Load reads configuration from .env (if present), the environment, and
// defaults. It never fails on a missing .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BIN_PATH", "./data/objects")
	v.SetDefault("HASH_SEED_HI", uint64(0x9ae16a3b2f90404f))
	v.SetDefault("HASH_SEED_LO", uint64(0xc949d7c7509e6557))
	v.SetDefault("WINDOW_SIZE", 8)
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("SUBMATCH_ANCHOR_CAP", int64(1_000_000))
	v.SetDefault("DB_MAX_OPEN_CONNS", 16)
	v.SetDefault("DB_MAX_IDLE_CONNS", 16)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	lifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_CONN_MAX_LIFETIME: %w", err)
	}

	origins := strings.Split(v.GetString("CORS_ORIGIN"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	cfg := Config{
		DatabaseURL:    v.GetString("DATABASE_URL"),
		BinPath:        v.GetString("BIN_PATH"),
		HashSeedHi:     v.GetUint64("HASH_SEED_HI"),
		HashSeedLo:     v.GetUint64("HASH_SEED_LO"),
		WindowSize:     v.GetInt("WINDOW_SIZE"),
		ServerAddress:  v.GetString("SERVER_ADDRESS"),
		CORSOrigins:    origins,
		AnchorCap:      v.GetInt64("SUBMATCH_ANCHOR_CAP"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnLifetime: lifetime,
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.WindowSize <= 1 {
		return Config{}, fmt.Errorf("WINDOW_SIZE must be greater than 1, got %d", cfg.WindowSize)
	}
	return cfg, nil
}

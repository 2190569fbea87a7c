// Package config loads Rollbook settings from the environment.
//
// Every key can be set as ROLLBOOK_<KEY> (e.g. ROLLBOOK_DB_PATH). A .env file
// in the working directory, if present, is loaded first; variables already
// set in the environment take precedence over it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mmynk/rollbook/internal/storage/redis"
	"github.com/mmynk/rollbook/internal/store"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "ROLLBOOK"

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ErrUnknownBackend is returned when backend names no supported storage.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Config holds the resolved settings.
type Config struct {
	Backend     string
	DBPath      string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
	StorageKey  string
	MetricsFile string // Empty disables the metrics textfile
	LogLevel    string
}

// Load reads settings from ./.env (if present) and the environment.
func Load() (*Config, error) {
	return load(".env")
}

func load(dotEnvPath string) (*Config, error) {
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, fmt.Errorf("config.godotenv(%s): %w", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config.os.Stat(%s): %w", dotEnvPath, err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("db_path", "./data/rollbook.db")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", redis.DefaultPrefix)
	v.SetDefault("storage_key", store.DefaultKey)
	v.SetDefault("metrics_file", "")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cfg := &Config{
		Backend:     strings.ToLower(v.GetString("backend")),
		DBPath:      v.GetString("db_path"),
		RedisAddr:   v.GetString("redis_addr"),
		RedisDB:     v.GetInt("redis_db"),
		RedisPrefix: v.GetString("redis_prefix"),
		StorageKey:  v.GetString("storage_key"),
		MetricsFile: v.GetString("metrics_file"),
		LogLevel:    v.GetString("log_level"),
	}
	switch cfg.Backend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
	return cfg, nil
}

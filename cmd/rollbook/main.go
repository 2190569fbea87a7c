package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/rollbook/internal/config"
	"github.com/mmynk/rollbook/internal/storage"
	"github.com/mmynk/rollbook/internal/storage/memory"
	"github.com/mmynk/rollbook/internal/storage/redis"
	"github.com/mmynk/rollbook/internal/storage/sqlite"
	"github.com/mmynk/rollbook/internal/store"
	"github.com/mmynk/rollbook/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	blobs, err := openBlobStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	slog.Debug("Storage initialized", "backend", cfg.Backend, "key", cfg.StorageKey)

	reg := prometheus.NewRegistry()
	st := store.Open(ctx, blobs, store.WithKey(cfg.StorageKey), store.WithRegisterer(reg))

	cli := newCommandLine(st, os.Stdout)
	err = cli.run(ctx, os.Args)

	if cfg.MetricsFile != "" {
		if werr := prometheus.WriteToTextfile(cfg.MetricsFile, reg); werr != nil {
			slog.Warn("Failed to write metrics file", "path", cfg.MetricsFile, "error", werr)
		}
	}
	if cerr := blobs.Close(); cerr != nil {
		slog.Warn("Failed to close storage", "error", cerr)
	}

	if err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}

func openBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return redis.Dial(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
	case config.BackendMemory:
		return memory.New(), nil
	default:
		return sqlite.New(cfg.DBPath)
	}
}

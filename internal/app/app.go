// Package app wires configuration, storage and the tournament manager together for
// the binaries under cmd/.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/AdamBeresnev/courtkeeper/internal/config"
	"github.com/AdamBeresnev/courtkeeper/internal/db"
	"github.com/AdamBeresnev/courtkeeper/internal/service"
	"github.com/AdamBeresnev/courtkeeper/internal/store"
	"github.com/AdamBeresnev/courtkeeper/internal/store/objectstore"
)

// NewLogger builds the JSON logger every binary installs as the slog default.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenStore opens the configured storage backend. The returned close func is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, state is lost on exit")
		return store.NewMemoryStore(), noop, nil

	case config.DriverS3:
		s, err := objectstore.New(ctx, cfg.ObjectStore())
		if err != nil {
			return nil, nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, nil, fmt.Errorf("prepare bucket %q: %w", cfg.S3Bucket, err)
		}
		slog.Info("object store ready", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return s, noop, nil

	case config.DriverSQLite:
		database, err := db.InitDB(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(database.DB); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return store.NewSQLiteStore(database), database.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// NewManager opens the store and builds a manager using the configured policy.
func NewManager(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.Manager, func() error, error) {
	s, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	m := service.NewManager(s,
		service.WithPolicy(cfg.Policy()),
		service.WithStorageTimeout(cfg.StorageTimeout),
		service.WithLogger(logger),
	)
	return m, closeStore, nil
}

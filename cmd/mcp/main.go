package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AdamBeresnev/courtkeeper/internal/app"
	"github.com/AdamBeresnev/courtkeeper/internal/config"
	"github.com/AdamBeresnev/courtkeeper/internal/mcptools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// stdout carries the protocol, so logs go to stderr.
	logger := app.NewLogger(os.Stderr, cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager, closeStore, err := app.NewManager(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	server := mcptools.NewServer(manager, mcptools.Defaults{
		CourtCount:  cfg.DefaultCourts,
		PairingMode: cfg.DefaultPairingMode,
	})
	if err := mcptools.Serve(ctx, server); err != nil {
		slog.Error("mcp server stopped", "error", err)
		closeStore()
		os.Exit(1)
	}
}

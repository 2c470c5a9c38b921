package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/vmunix/vaultimg/internal/cache"
	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/fetch"
	"github.com/vmunix/vaultimg/internal/importer"
	"github.com/vmunix/vaultimg/internal/logging"
	"github.com/vmunix/vaultimg/internal/migrations"
	"github.com/vmunix/vaultimg/internal/server"
	"github.com/vmunix/vaultimg/internal/vault"
)

// eventRetention is how long the daemon keeps events in the log.
const eventRetention = 30 * 24 * time.Hour

func runServer(configPath string) error {
	if configPath == "" {
		p, err := config.Discover()
		if err != nil {
			return err
		}
		configPath = p
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	logger.Info("starting vaultimgd", "version", version, "config", configPath)

	store, err := vault.Open(cfg.Vault.Root)
	if err != nil {
		return err
	}

	// Open database and apply schema
	db, err := migrations.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	fetcher := fetch.FromConfig(cfg.Fetch)
	imp := importer.New(store, fetcher, logger.With("component", "importer"))
	probeCache := cache.New(db)
	prober := fetch.NewCachingProber(fetcher, probeCache, cfg.Fetch.ProbeCacheTTL.Duration, logger)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	runner := server.NewRunner(db, server.Config{
		Addr:            addr,
		ShutdownTimeout: 30 * time.Second,
		EventRetention:  eventRetention,
	}, server.Deps{
		Importer: imp,
		App:      cfg,
		Vault:    store,
		Prober:   prober,
		Cache:    probeCache,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

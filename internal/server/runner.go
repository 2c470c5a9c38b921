// Package server wires the daemon: HTTP API, metrics, drop-folder watcher
// and event log maintenance.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	v1 "github.com/vmunix/vaultimg/internal/api/v1"
	"github.com/vmunix/vaultimg/internal/cache"
	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/events"
	"github.com/vmunix/vaultimg/internal/importer"
	"github.com/vmunix/vaultimg/internal/watch"
)

// Config for the daemon runner.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	// EventRetention prunes older events from the log. Zero keeps everything.
	EventRetention time.Duration
	PruneInterval  time.Duration
}

// Deps are the long-lived components the runner wires together.
type Deps struct {
	Importer *importer.Importer
	App      *config.Config
	Vault    v1.FolderLister // optional
	Prober   v1.Prober       // optional
	// Cache is pruned of expired entries alongside the event log.
	Cache *cache.Cache
}

// Runner manages the daemon components.
type Runner struct {
	db     *sql.DB
	config Config
	deps   Deps
	logger *slog.Logger
	ln     net.Listener
}

// NewRunner creates a new runner.
func NewRunner(db *sql.DB, cfg Config, deps Deps, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = time.Hour
	}
	return &Runner{
		db:     db,
		config: cfg,
		deps:   deps,
		logger: logger,
	}
}

// Listen binds the HTTP listener ahead of Run and returns its address.
func (r *Runner) Listen() (net.Addr, error) {
	if r.ln != nil {
		return r.ln.Addr(), nil
	}
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", r.config.Addr, err)
	}
	r.ln = ln
	return ln.Addr(), nil
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	if r.deps.Importer == nil || r.deps.App == nil {
		return errors.New("runner: importer and config are required")
	}
	if _, err := r.Listen(); err != nil {
		return err
	}

	// Create event bus with persistence
	eventLog := events.NewEventLog(r.db)
	bus := events.NewBus(eventLog, r.logger.With("component", "bus"))
	defer func() { _ = bus.Close() }()

	history := importer.NewHistoryStore(r.db)
	r.deps.Importer.SetHistory(history)
	r.deps.Importer.SetPublisher(bus)

	metrics := NewMetrics()
	metricsCh := bus.SubscribeAll(256)

	api, err := v1.NewWithDeps(v1.ServerDeps{
		Importer: r.deps.Importer,
		Config:   r.deps.App,
		History:  history,
		EventLog: eventLog,
		Vault:    r.deps.Vault,
		Prober:   r.deps.Prober,
	}, r.logger.With("component", "api"))
	if err != nil {
		_ = r.ln.Close()
		return err
	}

	var watcher *watch.Watcher
	if r.deps.App.Watch.Enabled {
		opts, err := watch.OptionsFromConfig(r.deps.App.Watch)
		if err != nil {
			_ = r.ln.Close()
			return fmt.Errorf("watch config: %w", err)
		}
		watcher = watch.New(opts, importer.SettingsFromConfig(r.deps.App), r.deps.Importer, r.logger)
		watcher.SetPublisher(bus)
		watcher.SetLedger(watch.NewLedger(r.db))
	}

	srv := &http.Server{
		Handler:           NewRouter(api, metrics, r.logger.With("component", "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("http server listening", "addr", r.ln.Addr().String())
		if err := srv.Serve(r.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	// Graceful HTTP shutdown
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), r.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		r.logger.Info("http server stopped")
		return nil
	})

	g.Go(func() error {
		return metrics.Consume(ctx, metricsCh)
	})

	if watcher != nil {
		g.Go(func() error {
			return watcher.Run(ctx)
		})
	}

	if r.config.EventRetention > 0 || r.deps.Cache != nil {
		g.Go(func() error {
			r.maintain(ctx, eventLog)
			return nil
		})
	}

	return g.Wait()
}

// maintain trims the event log and the cache now and then every PruneInterval.
func (r *Runner) maintain(ctx context.Context, log *events.EventLog) {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	for {
		if r.config.EventRetention > 0 {
			n, err := log.Prune(r.config.EventRetention)
			if err != nil {
				r.logger.Warn("prune events failed", "error", err)
			} else if n > 0 {
				r.logger.Info("pruned events", "count", n)
			}
		}
		if r.deps.Cache != nil {
			n, err := r.deps.Cache.Prune(ctx)
			if err != nil {
				r.logger.Warn("prune cache failed", "error", err)
			} else if n > 0 {
				r.logger.Debug("pruned cache", "count", n)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

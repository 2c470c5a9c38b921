package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vmunix/vaultimg/internal/cache"
	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/events"
	"github.com/vmunix/vaultimg/internal/fetch"
	"github.com/vmunix/vaultimg/internal/importer"
	"github.com/vmunix/vaultimg/internal/logging"
	"github.com/vmunix/vaultimg/internal/migrations"
	"github.com/vmunix/vaultimg/internal/vault"
)

var version = "dev"

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	jsonOutput bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "vaultimg",
		Short: "Import images into a note vault",
		Long: `vaultimg - import images into a note vault

Images can come from a URL, a local file, a data URI or another place in
the vault. Each import resolves a free file name under the configured
conflict policy and can create a companion note next to the image.

Run 'vaultimgd' to watch a drop folder and serve the HTTP API.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: discovered)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.Version = version
	cmd.SetVersionTemplate("vaultimg {{.Version}}\n")

	cmd.AddCommand(
		newImportCmd(opts),
		newProbeCmd(opts),
		newFoldersCmd(opts),
		newHistoryCmd(opts),
		newEventsCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

// app holds the components a command works with.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	vault    *vault.FS
	db       *sql.DB
	prober   fetch.Prober
	importer *importer.Importer
	history  *importer.HistoryStore
	eventLog *events.EventLog
	bus      *events.Bus
}

func (o *rootOptions) resolveConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.Discover()
}

// openApp loads the config and opens the vault and database.
func openApp(opts *rootOptions) (*app, error) {
	path, err := opts.resolveConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log := logging.New(opts.logLevel, cfg.Log.Format)

	store, err := vault.Open(cfg.Vault.Root)
	if err != nil {
		return nil, err
	}

	db, err := migrations.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, log.With("component", "bus"))
	history := importer.NewHistoryStore(db)
	fetcher := fetch.FromConfig(cfg.Fetch)
	prober := fetch.NewCachingProber(fetcher, cache.New(db), cfg.Fetch.ProbeCacheTTL.Duration, log)

	imp := importer.New(store, fetcher, log.With("component", "importer"))
	imp.SetHistory(history)
	imp.SetPublisher(bus)

	return &app{
		cfg:      cfg,
		log:      log,
		vault:    store,
		db:       db,
		prober:   prober,
		importer: imp,
		history:  history,
		eventLog: eventLog,
		bus:      bus,
	}, nil
}

func (a *app) Close() error {
	return errors.Join(a.bus.Close(), a.db.Close())
}

// lineNotifier prints terminal import messages, one per line. Batch imports
// notify from several goroutines at once.
type lineNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

func (n *lineNotifier) Notify(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintln(n.w, message)
}

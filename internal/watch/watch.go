// Package watch imports images dropped into a local directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/events"
	"github.com/vmunix/vaultimg/internal/fetch"
	"github.com/vmunix/vaultimg/internal/importer"
)

// DefaultDebounce is how long a file must stay quiet before it is imported.
const DefaultDebounce = 2 * time.Second

// Importer runs a single import.
type Importer interface {
	Import(ctx context.Context, settings importer.Settings, req importer.Request) *importer.Outcome
}

// Options configure a Watcher.
type Options struct {
	Dir        string
	Folder     string
	Behavior   importer.Behavior
	Conflict   importer.ConflictPolicy
	CreateNote bool
	Debounce   time.Duration
}

// OptionsFromConfig builds watcher options from the [watch] section.
func OptionsFromConfig(cfg config.WatchConfig) (Options, error) {
	behavior, err := importer.ParseBehavior(cfg.Behavior)
	if err != nil {
		return Options{}, err
	}
	conflict, err := importer.ParseConflictPolicy(cfg.Conflict)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Dir:        cfg.Dir,
		Folder:     cfg.Folder,
		Behavior:   behavior,
		Conflict:   conflict,
		CreateNote: cfg.CreateNote,
	}, nil
}

// Watcher turns files appearing in a directory into ExternalDrop imports.
type Watcher struct {
	opts      Options
	settings  importer.Settings
	importer  Importer
	local     afero.Fs
	publisher importer.Publisher // nil if not configured
	ledger    *Ledger            // nil if not configured
	log       *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	ready  chan string
	done   chan struct{}
}

// New creates a watcher. Nothing is watched until Run.
func New(opts Options, settings importer.Settings, imp Importer, log *slog.Logger) *Watcher {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		opts:     opts,
		settings: settings,
		importer: imp,
		local:    afero.NewOsFs(),
		log:      log.With("component", "watch", "dir", opts.Dir),
		timers:   make(map[string]*time.Timer),
		ready:    make(chan string, 16),
		done:     make(chan struct{}),
	}
}

// SetPublisher enables FileDropped events.
func (w *Watcher) SetPublisher(p importer.Publisher) { w.publisher = p }

// SetLedger makes the watcher skip files it already imported.
func (w *Watcher) SetLedger(l *Ledger) { w.ledger = l }

// Run watches the directory until ctx is canceled. Images already present
// when Run starts are imported first.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.opts.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.opts.Dir, err)
	}
	w.log.Info("watching for dropped images", "folder", w.opts.Folder)

	defer w.stopTimers()

	if err := w.ScanExisting(ctx); err != nil {
		w.log.Warn("initial scan failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "error", err)
		case path := <-w.ready:
			w.importFile(ctx, path)
		}
	}
}

// ScanExisting imports every supported image currently in the directory.
func (w *Watcher) ScanExisting(ctx context.Context) error {
	infos, err := afero.ReadDir(w.local, w.opts.Dir)
	if err != nil {
		return err
	}
	for _, info := range infos {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		path := filepath.Join(w.opts.Dir, info.Name())
		if info.IsDir() || !supported(path) {
			continue
		}
		w.importFile(ctx, path)
	}
	return nil
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !supported(ev.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	// Reset the timer on every write so half-copied files are not read.
	if t, ok := w.timers[ev.Name]; ok {
		t.Stop()
	}
	path := ev.Name
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	close(w.done)
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// importFile reads path and imports it into the configured folder.
func (w *Watcher) importFile(ctx context.Context, path string) {
	info, err := w.local.Stat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.log.Warn("stat dropped file failed", "path", path, "error", err)
		}
		return
	}
	if w.ledger != nil {
		done, err := w.ledger.Imported(path, info.Size(), info.ModTime())
		if err != nil {
			w.log.Warn("watch ledger lookup failed", "path", path, "error", err)
		} else if done {
			w.log.Debug("already imported, skipping", "path", path)
			return
		}
	}

	data, err := afero.ReadFile(w.local, path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.log.Warn("read dropped file failed", "path", path, "error", err)
		}
		return
	}

	if w.publisher != nil {
		e := &events.FileDropped{
			BaseEvent: events.NewBaseEvent(events.EventFileDropped, events.EntityWatch, path),
			Path:      path,
			Size:      int64(len(data)),
		}
		if err := w.publisher.Publish(ctx, e); err != nil {
			w.log.Warn("publish event failed", "error", err)
		}
	}

	req, err := w.buildRequest(path, data)
	if err != nil {
		w.log.Warn("skipping dropped file", "path", path, "error", err)
		return
	}
	out := w.importer.Import(ctx, w.settings, req)
	w.log.Info("dropped file processed", "path", path, "status", out.Status, "dest", out.Path)

	// Failed imports stay eligible for the next scan or write event.
	if w.ledger != nil && out.Status != importer.StatusFailed {
		if err := w.ledger.Record(path, info.Size(), info.ModTime(), out.ID); err != nil {
			w.log.Warn("watch ledger update failed", "path", path, "error", err)
		}
	}
}

// buildRequest derives an import request for a dropped file. The extension
// comes from the file contents when recognizable, else from its name.
func (w *Watcher) buildRequest(path string, data []byte) (importer.Request, error) {
	ext, ok := fetch.DetectImage(data)
	if !ok {
		ext = filepath.Ext(path)
	}
	extension, err := importer.ParseExtension(ext)
	if err != nil {
		return importer.Request{}, err
	}

	base := importer.SanitizeBaseName(importer.StemOf(path))
	if base == "" {
		base = "image"
	}

	folder := importer.NormalizeFolder(w.opts.Folder)
	return importer.Request{
		Source:     importer.ExternalDrop{Path: path, Data: data},
		BaseName:   base,
		Extension:  extension,
		Behavior:   w.opts.Behavior,
		Conflict:   w.opts.Conflict,
		DestFolder: folder,
		CreateNote: w.opts.CreateNote || importer.ShouldCreateNote(w.settings.Folders, folder),
	}, nil
}

func supported(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Package importer resolves destination paths and imports images into a vault.
package importer

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/vaultimg/internal/importer Storage,Fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/events"
)

// Storage is the vault boundary used by the importer. Implementations must
// be strongly consistent: Exists observes a completed Delete.
type Storage interface {
	Exists(path string) bool
	CreateBinary(path string, data []byte) error
	CreateText(path, content string) error
	Delete(path string) error
}

// BinaryReader is the fast read path for in-vault sources.
type BinaryReader interface {
	ReadBinary(path string) ([]byte, error)
}

// ResourceLocator exposes a fetchable URL for a vault path. It is used for
// in-vault sources when the storage has no BinaryReader.
type ResourceLocator interface {
	ResourceURL(path string) (string, error)
}

// Fetcher downloads remote resources.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Notifier surfaces the terminal message of an import to the user.
type Notifier interface {
	Notify(message string)
}

// Publisher receives import lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Settings is the configuration snapshot an import runs with.
type Settings struct {
	Folders []config.Folder
	// SettleDelay is waited after a replace-delete for storages whose
	// existence check lags deletes. Zero for consistent storages.
	SettleDelay time.Duration
}

// SettingsFromConfig builds import settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	folders := make([]config.Folder, len(cfg.Folders))
	copy(folders, cfg.Folders)
	return Settings{
		Folders:     folders,
		SettleDelay: cfg.Import.ReplaceSettle.Duration,
	}
}

// Importer executes import requests against a vault.
type Importer struct {
	storage   Storage
	fetcher   Fetcher
	local     afero.Fs
	history   *HistoryStore // nil if not configured
	publisher Publisher     // nil if not configured
	notifier  Notifier      // nil if not configured
	validate  *validator.Validate
	sleep     func(time.Duration)
	log       *slog.Logger
}

// New creates an importer writing to storage and downloading with fetcher.
// Cut imports remove local sources from the OS file system unless SetLocalFS
// says otherwise.
func New(storage Storage, fetcher Fetcher, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.Default()
	}
	return &Importer{
		storage:  storage,
		fetcher:  fetcher,
		local:    afero.NewOsFs(),
		validate: validator.New(),
		sleep:    time.Sleep,
		log:      log,
	}
}

// SetLocalFS sets the file system local sources are removed from on cut.
func (i *Importer) SetLocalFS(fs afero.Fs) { i.local = fs }

// SetHistory enables recording of every outcome.
func (i *Importer) SetHistory(h *HistoryStore) { i.history = h }

// SetPublisher enables lifecycle events.
func (i *Importer) SetPublisher(p Publisher) { i.publisher = p }

// SetNotifier sets where terminal messages go.
func (i *Importer) SetNotifier(n Notifier) { i.notifier = n }

// Import runs one request to completion and reports exactly one outcome.
// ctx bounds the network fetch; once bytes are acquired the write and its
// side effects always run.
func (i *Importer) Import(ctx context.Context, settings Settings, req Request) *Outcome {
	req.BaseName = norm.NFC.String(req.BaseName)
	out := &Outcome{
		ID:       uuid.NewString(),
		FileName: req.FileName(),
		Started:  time.Now(),
	}
	if req.Source != nil {
		out.SourceKind = req.Source.Kind()
		out.Source = req.Source.Describe()
	}
	log := i.log.With("import_id", out.ID)
	log.Info("import started", "source", out.SourceKind, "folder", req.DestFolder, "name", out.FileName)
	i.publish(ctx, log, &events.ImportStarted{
		BaseEvent:  events.NewBaseEvent(events.EventImportStarted, events.EntityImport, out.ID),
		SourceKind: string(out.SourceKind),
		Source:     out.Source,
		DestFolder: req.DestFolder,
	})

	i.run(ctx, log, settings, req, out)
	out.Finished = time.Now()

	switch out.Status {
	case StatusSucceeded:
		log.Info("import complete", "path", out.Path, "size_bytes", out.SizeBytes, "warnings", len(out.Warnings))
	case StatusCanceled:
		log.Info("import canceled", "path", out.RequestedPath)
	case StatusFailed:
		log.Warn("import failed", "kind", Kind(out.Err), "error", out.Err)
	}

	i.record(ctx, log, out)
	if i.notifier != nil {
		i.notifier.Notify(out.Message())
	}
	return out
}

func (i *Importer) run(ctx context.Context, log *slog.Logger, settings Settings, req Request, out *Outcome) {
	// 1. Validate before touching storage or network.
	dest, err := i.validateRequest(req)
	if err != nil {
		out.fail(err)
		return
	}

	// 2. Requested path.
	target := joinPath(dest, req.FileName())
	out.RequestedPath = target
	if s, ok := req.Source.(InStoreFile); ok && req.Conflict == ConflictReplace &&
		path.Clean(NormalizeFolder(s.Path)) == path.Clean(target) {
		out.fail(fmt.Errorf("%w: %s cannot replace itself", ErrInvalidRequest, target))
		return
	}

	// 3. Replace removes the existing entry first.
	if req.Conflict == ConflictReplace && i.storage.Exists(target) {
		if err := i.storage.Delete(target); err != nil {
			out.fail(fmt.Errorf("%w: delete existing %s: %w", ErrStorage, target, err))
			return
		}
		log.Info("replace: deleted existing", "path", target)
		out.Replaced = true
		if settings.SettleDelay > 0 {
			i.sleep(settings.SettleDelay)
		}
	}

	// 4. Resolve the final path.
	res, err := ResolvePath(target, req.Conflict, i.storage.Exists)
	if err != nil {
		out.fail(err)
		return
	}
	if res.Canceled {
		out.Status = StatusCanceled
		return
	}

	// 5. Acquire bytes.
	data, err := i.acquire(ctx, req.Source)
	if err != nil {
		out.fail(err)
		return
	}

	// 6. Single write.
	if err := i.storage.CreateBinary(res.Path, data); err != nil {
		out.fail(fmt.Errorf("%w: write %s: %w", ErrStorage, res.Path, err))
		return
	}
	log.Debug("image written", "path", res.Path, "size_bytes", len(data))
	out.Status = StatusSucceeded
	out.Path = res.Path
	out.SizeBytes = int64(len(data))

	// 7. Cut removes the local source file (best effort).
	if req.Behavior == BehaviorCut {
		if p := localPath(req.Source); p != "" {
			if err := i.local.Remove(p); err != nil {
				err = fmt.Errorf("%w: %s: %w", ErrCleanup, p, err)
				log.Warn("source cleanup failed", "path", p, "error", err)
				out.Warnings = append(out.Warnings, err)
			} else {
				out.SourceRemoved = true
			}
		}
	}

	// 8. Companion note (best effort).
	if req.CreateNote {
		notePath, created, err := i.createNote(settings, dest, req.BaseName, req.NoteName)
		if err != nil {
			log.Warn("note creation failed", "path", notePath, "error", err)
			out.Warnings = append(out.Warnings, err)
		} else if created {
			out.NotePath = notePath
		}
	}
}

// validateRequest checks the request and returns the normalized destination folder.
func (i *Importer) validateRequest(req Request) (string, error) {
	dest := NormalizeFolder(req.DestFolder)
	if dest == "" {
		return "", fmt.Errorf("%w: destination folder into which the image will be imported isn't specified", ErrInvalidRequest)
	}
	if err := validateSource(req.Source); err != nil {
		return "", err
	}
	if err := i.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return "", fmt.Errorf("%w: %s: failed %q check (got %q)", ErrInvalidRequest, fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := CheckBaseName(req.BaseName); err != nil {
		return "", err
	}
	return dest, nil
}

// acquire loads the image bytes for src.
func (i *Importer) acquire(ctx context.Context, src Source) ([]byte, error) {
	switch s := src.(type) {
	case RemoteURL:
		data, err := i.fetcher.FetchBytes(ctx, s.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNetwork, s.URL, err)
		}
		return data, nil
	case DataURI:
		data, _, err := DecodeDataURI(s.URI)
		return data, err
	case LocalFile:
		return s.Data, nil
	case ExternalDrop:
		return s.Data, nil
	case InStoreFile:
		return i.readStored(ctx, NormalizeFolder(s.Path))
	default:
		return nil, fmt.Errorf("%w: unsupported source %T", ErrInvalidRequest, src)
	}
}

// readStored reads a vault file through the fast path when the storage has
// one, otherwise by fetching its resource URL.
func (i *Importer) readStored(ctx context.Context, path string) ([]byte, error) {
	if r, ok := i.storage.(BinaryReader); ok {
		data, err := r.ReadBinary(path)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, path, err)
		}
		return data, nil
	}
	loc, ok := i.storage.(ResourceLocator)
	if !ok {
		return nil, fmt.Errorf("%w: storage cannot read %s", ErrStorage, path)
	}
	u, err := loc.ResourceURL(path)
	if err != nil {
		return nil, fmt.Errorf("%w: locate %s: %w", ErrStorage, path, err)
	}
	data, err := i.fetcher.FetchBytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, path, err)
	}
	return data, nil
}

// publish emits e if a publisher is configured. Failures are logged only.
func (i *Importer) publish(ctx context.Context, log *slog.Logger, e events.Event) {
	if i.publisher == nil {
		return
	}
	if err := i.publisher.Publish(ctx, e); err != nil {
		log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

// record publishes the terminal event and stores the history row.
func (i *Importer) record(ctx context.Context, log *slog.Logger, out *Outcome) {
	base := func(t string) events.BaseEvent {
		return events.NewBaseEvent(t, events.EntityImport, out.ID)
	}
	switch out.Status {
	case StatusSucceeded:
		warnings := make([]string, len(out.Warnings))
		for n, w := range out.Warnings {
			warnings[n] = w.Error()
		}
		i.publish(ctx, log, &events.ImportCompleted{
			BaseEvent:     base(events.EventImportCompleted),
			SourceKind:    string(out.SourceKind),
			FilePath:      out.Path,
			FileSize:      out.SizeBytes,
			NotePath:      out.NotePath,
			Replaced:      out.Replaced,
			SourceRemoved: out.SourceRemoved,
			Warnings:      warnings,
		})
	case StatusCanceled:
		i.publish(ctx, log, &events.ImportCanceled{
			BaseEvent:  base(events.EventImportCanceled),
			SourceKind: string(out.SourceKind),
			FilePath:   out.RequestedPath,
		})
	case StatusFailed:
		i.publish(ctx, log, &events.ImportFailed{
			BaseEvent:  base(events.EventImportFailed),
			SourceKind: string(out.SourceKind),
			Kind:       Kind(out.Err),
			Reason:     out.Err.Error(),
		})
	}

	if i.history == nil {
		return
	}
	if err := i.history.Add(entryFromOutcome(out)); err != nil {
		log.Warn("record history failed", "error", err)
	}
}

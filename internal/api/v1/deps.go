package v1

import (
	"context"
	"errors"

	"github.com/vmunix/vaultimg/internal/config"
	"github.com/vmunix/vaultimg/internal/events"
	"github.com/vmunix/vaultimg/internal/fetch"
	"github.com/vmunix/vaultimg/internal/importer"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/vaultimg/internal/api/v1 ImageImporter,Prober,FolderLister

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// ImageImporter runs import requests.
type ImageImporter interface {
	Import(ctx context.Context, settings importer.Settings, req importer.Request) *importer.Outcome
	ImportAll(ctx context.Context, settings importer.Settings, reqs []importer.Request, concurrency int) []*importer.Outcome
}

// Prober checks whether a URL points at an image.
type Prober interface {
	Probe(ctx context.Context, url string) (*fetch.ProbeResult, error)
}

// FolderLister lists the folders that exist in the vault.
type FolderLister interface {
	Folders() ([]string, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Importer ImageImporter
	Config   *config.Config

	// Optional dependencies (nil if not configured)
	History  *importer.HistoryStore
	EventLog *events.EventLog
	Vault    FolderLister
	Prober   Prober
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Importer == nil {
		return errors.New("importer is required")
	}
	if d.Config == nil {
		return errors.New("config is required")
	}
	return nil
}

// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrInvalidRequest indicates a malformed or ambiguous request. It is
	// always reported before any storage or network access.
	ErrInvalidRequest = errors.New("invalid import request")

	// ErrNetwork indicates a remote fetch failed or returned a non-success status.
	ErrNetwork = errors.New("network error")

	// ErrStorage indicates a read, write or delete against the vault failed.
	ErrStorage = errors.New("storage error")

	// ErrExhausted indicates no free postfixed name was found within MaxPostfix probes.
	ErrExhausted = errors.New("no free file name")

	// ErrNote indicates the companion note could not be created.
	ErrNote = errors.New("note creation failed")

	// ErrCleanup indicates the local source file could not be removed after a cut.
	ErrCleanup = errors.New("source cleanup failed")
)

// Kind returns a short stable label for err, used in history rows and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrStorage):
		return "storage"
	case errors.Is(err, ErrExhausted):
		return "exhausted"
	case errors.Is(err, ErrNote):
		return "note"
	case errors.Is(err, ErrCleanup):
		return "cleanup"
	default:
		return "unknown"
	}
}

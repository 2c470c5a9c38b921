// internal/importer/outcome.go
package importer

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// Status is the terminal state of an import.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusCanceled  Status = "canceled"
	StatusFailed    Status = "failed"
)

// Outcome is the single result reported for an import request.
type Outcome struct {
	ID         string
	Status     Status
	SourceKind SourceKind
	Source     string

	FileName      string // requested "<base>.<ext>"
	RequestedPath string // folder/<base>.<ext>, empty if validation failed
	Path          string // final stored path on success
	SizeBytes     int64
	NotePath      string // created companion note, if any
	Replaced      bool
	SourceRemoved bool

	// Err is set only when Status is StatusFailed.
	Err error
	// Warnings are secondary failures that did not fail the import
	// (ErrCleanup, ErrNote).
	Warnings []error

	Started  time.Time
	Finished time.Time
}

func (o *Outcome) fail(err error) {
	o.Status = StatusFailed
	o.Err = err
}

// Succeeded reports whether the image was stored.
func (o *Outcome) Succeeded() bool { return o.Status == StatusSucceeded }

// Message is the user-visible text for the terminal notification.
func (o *Outcome) Message() string {
	switch o.Status {
	case StatusSucceeded:
		msg := "Image Import Succeeded: " + path.Base(o.Path)
		if len(o.Warnings) > 0 {
			parts := make([]string, len(o.Warnings))
			for i, w := range o.Warnings {
				parts[i] = w.Error()
			}
			msg += " (" + strings.Join(parts, "; ") + ")"
		}
		return msg
	case StatusCanceled:
		return "Image Import Canceled: " + o.FileName + " already exists"
	default:
		return "Image Import Failed: " + failureReason(o.Err)
	}
}

// failureReason strips the taxonomy prefix for user-facing text.
func failureReason(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidRequest, ErrNetwork, ErrStorage} {
		if errors.Is(err, sentinel) {
			prefix := sentinel.Error() + ": "
			if strings.HasPrefix(msg, prefix) {
				return fmt.Sprintf("%s (%s)", strings.TrimPrefix(msg, prefix), sentinel)
			}
		}
	}
	return msg
}

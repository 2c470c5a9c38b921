// internal/events/import.go
package events

// Entity types
const (
	EntityImport = "import"
	EntityWatch  = "watch"
)

// Event type constants
const (
	EventImportStarted   = "import.started"
	EventImportCompleted = "import.completed"
	EventImportCanceled  = "import.canceled"
	EventImportFailed    = "import.failed"
	EventFileDropped     = "watch.file.dropped"
)

// ImportStarted is emitted when an import request is accepted for execution.
type ImportStarted struct {
	BaseEvent
	SourceKind string `json:"source_kind"`
	Source     string `json:"source"`
	DestFolder string `json:"dest_folder"`
}

// ImportCompleted is emitted when the image was stored.
type ImportCompleted struct {
	BaseEvent
	SourceKind    string   `json:"source_kind"`
	FilePath      string   `json:"file_path"`
	FileSize      int64    `json:"file_size"`
	NotePath      string   `json:"note_path,omitempty"`
	Replaced      bool     `json:"replaced,omitempty"`
	SourceRemoved bool     `json:"source_removed,omitempty"`
	Warnings      []string `json:"warnings,omitempty"` // cleanup and note failures
}

// HasWarnings reports whether a secondary step failed.
func (e *ImportCompleted) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// ImportCanceled is emitted when the conflict policy chose not to write.
type ImportCanceled struct {
	BaseEvent
	SourceKind string `json:"source_kind"`
	FilePath   string `json:"file_path"`
}

// ImportFailed is emitted when import fails.
type ImportFailed struct {
	BaseEvent
	SourceKind string `json:"source_kind"`
	Kind       string `json:"kind"`
	Reason     string `json:"reason"`
}

// FileDropped is emitted when the watcher picks up a new file.
type FileDropped struct {
	BaseEvent
	Path string `json:"path"`
	Size int64  `json:"size"`
}

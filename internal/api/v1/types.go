// internal/api/v1/types.go
package v1

import (
	"time"

	"github.com/vmunix/vaultimg/internal/importer"
)

// importResponse is the API representation of an import outcome.
type importResponse struct {
	ID            string   `json:"id,omitempty"`
	Status        string   `json:"status"`
	SourceKind    string   `json:"source_kind,omitempty"`
	Source        string   `json:"source,omitempty"`
	RequestedPath string   `json:"requested_path,omitempty"`
	Path          string   `json:"path,omitempty"`
	SizeBytes     int64    `json:"size_bytes,omitempty"`
	NotePath      string   `json:"note_path,omitempty"`
	Replaced      bool     `json:"replaced,omitempty"`
	SourceRemoved bool     `json:"source_removed,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	Message       string   `json:"message"`
	Error         string   `json:"error,omitempty"`
	Code          string   `json:"code,omitempty"`
}

func outcomeToResponse(o *importer.Outcome) importResponse {
	resp := importResponse{
		ID:            o.ID,
		Status:        string(o.Status),
		SourceKind:    string(o.SourceKind),
		Source:        o.Source,
		RequestedPath: o.RequestedPath,
		Path:          o.Path,
		SizeBytes:     o.SizeBytes,
		NotePath:      o.NotePath,
		Replaced:      o.Replaced,
		SourceRemoved: o.SourceRemoved,
		Message:       o.Message(),
	}
	for _, w := range o.Warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	if o.Err != nil {
		resp.Error = o.Err.Error()
	}
	_, resp.Code = outcomeStatus(o)
	return resp
}

// batchRequest is the request body for POST /imports/batch.
type batchRequest struct {
	Items       []importer.Form `json:"items"`
	Concurrency int             `json:"concurrency,omitempty"`
}

// batchResponse is the response for POST /imports/batch.
type batchResponse struct {
	Items     []importResponse `json:"items"`
	Succeeded int              `json:"succeeded"`
	Canceled  int              `json:"canceled"`
	Failed    int              `json:"failed"`
}

// folderResponse is the API representation of a configured folder.
type folderResponse struct {
	Name                 string `json:"name"`
	Path                 string `json:"path"`
	CreateNote           bool   `json:"create_note"`
	CreateNoteSubfolders bool   `json:"create_note_subfolders"`
	NoteTemplate         string `json:"note_template,omitempty"`
}

type listFoldersResponse struct {
	Items []folderResponse `json:"items"`
}

type listVaultFoldersResponse struct {
	Items []string `json:"items"`
}

// historyResponse is the API representation of a history entry.
type historyResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	SourceKind string    `json:"source_kind"`
	Source     string    `json:"source"`
	DestPath   string    `json:"dest_path"`
	NotePath   string    `json:"note_path,omitempty"`
	SizeBytes  int64     `json:"size_bytes"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Error      string    `json:"error,omitempty"`
	Warnings   string    `json:"warnings,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type listHistoryResponse struct {
	Items []historyResponse `json:"items"`
	Total int               `json:"total"`
}

// EventResponse is a single event in API responses.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Payload    string `json:"payload"`
	OccurredAt string `json:"occurred_at"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
	Limit int             `json:"limit"`
}

type probeRequest struct {
	URL string `json:"url"`
}

type probeResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Extension   string `json:"extension"`
}

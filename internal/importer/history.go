// internal/importer/history.go
package importer

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// HistoryEntry is a recorded import outcome.
type HistoryEntry struct {
	ID         string
	Status     Status
	SourceKind SourceKind
	Source     string
	DestPath   string // final path on success, requested path otherwise
	NotePath   string
	SizeBytes  int64
	ErrorKind  string
	Error      string
	Warnings   string // newline separated
	CreatedAt  time.Time
}

// HistoryFilter specifies criteria for listing history.
type HistoryFilter struct {
	Status *Status
	Folder string // only imports stored under this vault folder
	Limit  int
}

// HistoryStore persists import outcomes.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore creates a history store.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Add inserts a new history entry. CreatedAt defaults to now.
func (s *HistoryStore) Add(h *HistoryEntry) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO imports (id, status, source_kind, source, dest_path, note_path, size_bytes, error_kind, error, warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.Status, h.SourceKind, h.Source, h.DestPath, h.NotePath, h.SizeBytes, h.ErrorKind, h.Error, h.Warnings, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// List returns history entries matching the filter, most recent first.
func (s *HistoryStore) List(f HistoryFilter) ([]*HistoryEntry, error) {
	var conditions []string
	var args []any

	if f.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *f.Status)
	}
	if folder := NormalizeFolder(f.Folder); folder != "" {
		conditions = append(conditions, "dest_path LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(folder)+"/%")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT id, status, source_kind, source, dest_path, note_path, size_bytes, error_kind, error, warnings, created_at
		FROM imports ` + whereClause + ` ORDER BY created_at DESC, rowid DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		h := &HistoryEntry{}
		if err := rows.Scan(&h.ID, &h.Status, &h.SourceKind, &h.Source, &h.DestPath, &h.NotePath,
			&h.SizeBytes, &h.ErrorKind, &h.Error, &h.Warnings, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func entryFromOutcome(o *Outcome) *HistoryEntry {
	h := &HistoryEntry{
		ID:         o.ID,
		Status:     o.Status,
		SourceKind: o.SourceKind,
		Source:     o.Source,
		DestPath:   o.Path,
		NotePath:   o.NotePath,
		SizeBytes:  o.SizeBytes,
		ErrorKind:  Kind(o.Err),
		CreatedAt:  o.Finished,
	}
	if h.DestPath == "" {
		h.DestPath = o.RequestedPath
	}
	if o.Err != nil {
		h.Error = o.Err.Error()
	}
	if len(o.Warnings) > 0 {
		parts := make([]string, len(o.Warnings))
		for i, w := range o.Warnings {
			parts[i] = w.Error()
		}
		h.Warnings = strings.Join(parts, "\n")
	}
	return h
}

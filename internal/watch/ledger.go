package watch

import (
	"database/sql"
	"fmt"
	"time"
)

// Ledger remembers dropped files that were imported. A file left in the drop
// directory (copy behavior) is skipped until its size or mtime changes.
type Ledger struct {
	db *sql.DB
}

// NewLedger creates a ledger on db. The watch_imports table must exist.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Imported reports whether path was imported with exactly this size and mtime.
func (l *Ledger) Imported(path string, size int64, modTime time.Time) (bool, error) {
	var n int
	err := l.db.QueryRow(
		`SELECT COUNT(*) FROM watch_imports WHERE path = ? AND size_bytes = ? AND mod_time = ?`,
		path, size, modTime.UnixNano(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query watch ledger: %w", err)
	}
	return n > 0, nil
}

// Record marks path as imported, replacing an earlier record for it.
func (l *Ledger) Record(path string, size int64, modTime time.Time, importID string) error {
	_, err := l.db.Exec(`
		INSERT INTO watch_imports (path, size_bytes, mod_time, import_id, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			size_bytes = excluded.size_bytes,
			mod_time = excluded.mod_time,
			import_id = excluded.import_id,
			recorded_at = excluded.recorded_at`,
		path, size, modTime.UnixNano(), importID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record watch import: %w", err)
	}
	return nil
}

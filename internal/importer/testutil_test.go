// internal/importer/testutil_test.go
package importer

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/vaultimg/internal/migrations"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err, "apply schema")
	return db
}

// memStorage is an in-memory Storage used by internal tests.
type memStorage struct {
	files   map[string][]byte
	deletes []string
	writes  []string
}

func newMemStorage(paths ...string) *memStorage {
	s := &memStorage{files: make(map[string][]byte)}
	for _, p := range paths {
		s.files[p] = []byte("existing")
	}
	return s
}

func (s *memStorage) Exists(p string) bool {
	_, ok := s.files[p]
	return ok
}

func (s *memStorage) CreateBinary(p string, data []byte) error {
	s.files[p] = data
	s.writes = append(s.writes, p)
	return nil
}

func (s *memStorage) CreateText(p, content string) error {
	return s.CreateBinary(p, []byte(content))
}

func (s *memStorage) Delete(p string) error {
	delete(s.files, p)
	s.deletes = append(s.deletes, p)
	return nil
}

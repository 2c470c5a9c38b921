// Package cache provides a SQLite-backed key/value store with expiry.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Cache stores byte values in the cache table.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a cache on db. The cache table must exist.
func New(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Get returns the value for key. Missing and expired entries report false.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil || c.now().After(expiresAt) {
		return nil, false
	}
	if value == nil {
		value = []byte{}
	}
	return value, true
}

// Set stores value under key until ttl elapses.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if value == nil {
		value = []byte{}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO cache (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, c.now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune removes expired entries and returns how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, "DELETE FROM cache WHERE expires_at < ?", c.now())
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}

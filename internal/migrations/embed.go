// Package migrations provides the embedded SQLite schema.
package migrations

import (
	_ "embed"
)

// InitialSQL creates the import history, event log, cache and watch ledger tables.
//
//go:embed sql/001_initial.sql
var InitialSQL string

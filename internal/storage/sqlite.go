// ABOUTME: SQLite persistence backend using modernc.org/sqlite.
// ABOUTME: One row per collection, replaced wholesale in a transaction.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/harperreed/ringd/internal/store"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
    name    TEXT PRIMARY KEY,
    payload BLOB NOT NULL
);
`

// SQLiteBackend stores each collection's JSON as one row. The whole
// state is replaced inside a single transaction per flush, which gives
// the same all-or-nothing visibility as the snapshot file rename.
type SQLiteBackend struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteBackend opens or creates dir/ringd.db.
func NewSQLiteBackend(dir string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	dbPath := filepath.Join(dir, "ringd.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteBackend{db: db, dbPath: dbPath}, nil
}

// Location returns the database file path.
func (b *SQLiteBackend) Location() string { return b.dbPath }

// Load reassembles the snapshot from the collections table.
func (b *SQLiteBackend) Load() (*store.Snapshot, error) {
	rows, err := b.db.Query("SELECT name, payload FROM collections")
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	defer rows.Close()

	parts := make(map[string][]byte)
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		parts[name] = payload
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}
	if len(parts) == 0 {
		return &store.Snapshot{}, nil
	}

	raw := make(map[string]json.RawMessage, len(parts))
	for name, payload := range parts {
		raw[name] = json.RawMessage(payload)
	}
	snap, err := joinSnapshot(raw)
	if err != nil {
		return &store.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return snap, nil
}

// Flush replaces every row inside one transaction.
func (b *SQLiteBackend) Flush(snap *store.Snapshot) error {
	parts, err := splitSnapshot(snap)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin flush: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM collections"); err != nil {
		return fmt.Errorf("clear collections: %w", err)
	}
	for name, payload := range parts {
		if _, err := tx.Exec(
			"INSERT INTO collections (name, payload) VALUES (?, ?)",
			name, []byte(payload),
		); err != nil {
			return fmt.Errorf("write collection %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit flush: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

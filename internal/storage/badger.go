// ABOUTME: Badger persistence backend, one key per collection.
// ABOUTME: Each flush commits in a single write transaction.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/harperreed/ringd/internal/store"
)

const statePrefix = "state:"

// BadgerBackend stores each collection's JSON under a prefixed key.
// Badger transactions commit atomically, so a flush is all-or-nothing
// like the snapshot file rename.
type BadgerBackend struct {
	db  *badger.DB
	dir string
}

// NewBadgerBackend opens or creates the badger store under dir/badger.
func NewBadgerBackend(dir string) (*BadgerBackend, error) {
	path := filepath.Join(dir, "badger")
	if err := os.MkdirAll(path, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerBackend{db: db, dir: path}, nil
}

// Location returns the badger directory.
func (b *BadgerBackend) Location() string { return b.dir }

// Load reassembles the snapshot from the prefixed keys.
func (b *BadgerBackend) Load() (*store.Snapshot, error) {
	parts := make(map[string]json.RawMessage)
	err := b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(statePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), statePrefix)
			payload, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			parts[name] = payload
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read badger state: %w", err)
	}
	if len(parts) == 0 {
		return &store.Snapshot{}, nil
	}

	snap, err := joinSnapshot(parts)
	if err != nil {
		return &store.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return snap, nil
}

// Flush writes every collection in one transaction. Keys for parts the
// snapshot no longer carries (a cleared singleton) are removed so loads
// cannot resurrect them.
func (b *BadgerBackend) Flush(snap *store.Snapshot) error {
	parts, err := splitSnapshot(snap)
	if err != nil {
		return err
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		var stale [][]byte
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(statePrefix)})
		for it.Seek([]byte(statePrefix)); it.ValidForPrefix([]byte(statePrefix)); it.Next() {
			name := strings.TrimPrefix(string(it.Item().Key()), statePrefix)
			if _, ok := parts[name]; !ok {
				stale = append(stale, it.Item().KeyCopy(nil))
			}
		}
		it.Close()
		for _, key := range stale {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for name, payload := range parts {
			if err := txn.Set([]byte(statePrefix+name), payload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write badger state: %w", err)
	}
	return nil
}

// Close closes the badger store.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

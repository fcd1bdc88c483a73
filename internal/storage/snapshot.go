// ABOUTME: Default persistence backend: one JSON document on disk.
// ABOUTME: Writes a temp file then renames it over the canonical path.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/harperreed/ringd/internal/store"
	"github.com/klauspost/compress/gzip"
)

// StateFileName is the canonical snapshot file under the data directory.
const StateFileName = "ringd_data.json"

var gzipMagic = []byte{0x1f, 0x8b}

// FileBackend persists the full state as a single JSON document.
// Compression only affects what Flush writes; Load sniffs the gzip magic
// so toggling the option never strands existing data.
type FileBackend struct {
	path     string
	compress bool
}

// NewFileBackend creates the data directory if needed and returns a
// backend writing to dir/ringd_data.json.
func NewFileBackend(dir string, compress bool) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{
		path:     filepath.Join(dir, StateFileName),
		compress: compress,
	}, nil
}

// Location returns the snapshot file path.
func (b *FileBackend) Location() string { return b.path }

// Exists reports whether a snapshot file is present on disk.
func (b *FileBackend) Exists() bool {
	_, err := os.Stat(b.path)
	return err == nil
}

// Load reads the snapshot file. Absentee and corrupt files both yield an
// empty snapshot; only the corrupt case carries an error, wrapping
// ErrCorruptState, so the caller can log what it is starting over from.
func (b *FileBackend) Load() (*store.Snapshot, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &store.Snapshot{}, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return &store.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return &store.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return &store.Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	return &snap, nil
}

// Flush serializes snap to a temp file in the same directory, then
// renames it over the canonical path. Rename within a directory is
// atomic, so an observer sees either the old document or the new one.
func (b *FileBackend) Flush(snap *store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if b.compress {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return fmt.Errorf("compress state: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress state: %w", err)
		}
		data = buf.Bytes()
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, StateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("set state file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Close releases resources. For FileBackend this is a no-op.
func (b *FileBackend) Close() error { return nil }

// ABOUTME: Backend interface for durable full-state persistence.
// ABOUTME: Implementations flush the complete snapshot atomically.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/ringd/internal/store"
)

// ErrCorruptState marks a state document that exists but cannot be
// decoded. Callers treat it as a warning and start from an empty state
// rather than refusing to boot.
var ErrCorruptState = errors.New("corrupt state document")

// Backend persists the full snapshot. Load is called once at startup;
// Flush after every ingestion that changed state. A Flush must be atomic
// from an external observer's perspective: a crash mid-flush leaves the
// previous state intact, never a half-written one.
type Backend interface {
	// Load reads the persisted snapshot. An absent store yields an empty
	// snapshot and no error; a corrupt one yields an empty snapshot and
	// an error wrapping ErrCorruptState.
	Load() (*store.Snapshot, error)
	// Flush replaces the persisted state with snap.
	Flush(snap *store.Snapshot) error
	// Location describes where state lives, for health reporting.
	Location() string
	Close() error
}

// splitSnapshot decomposes a snapshot into its top-level JSON parts,
// keyed by collection name. Backends that store one value per collection
// share this so their layouts stay field-for-field identical to the
// snapshot document.
func splitSnapshot(snap *store.Snapshot) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("split snapshot: %w", err)
	}
	return parts, nil
}

// joinSnapshot reassembles a snapshot from its top-level JSON parts.
func joinSnapshot(parts map[string]json.RawMessage) (*store.Snapshot, error) {
	data, err := json.Marshal(parts)
	if err != nil {
		return nil, fmt.Errorf("join snapshot: %w", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

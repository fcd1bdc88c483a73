// ABOUTME: Data migration between persistence backends.
// ABOUTME: Copies the full snapshot from source to destination.
package storage

import (
	"errors"
	"fmt"

	"github.com/harperreed/ringd/internal/store"
)

// MigrateSummary holds counts of migrated data.
type MigrateSummary struct {
	Records    int
	Singletons int
}

// Migrate copies all state from src to dst. The destination's previous
// contents are replaced, matching flush semantics. A corrupt source is
// an error here, unlike at startup: migrating an unreadable store into a
// healthy one must not silently produce an empty destination.
func Migrate(src, dst Backend) (*MigrateSummary, error) {
	snap, err := src.Load()
	if err != nil {
		if errors.Is(err, ErrCorruptState) {
			return nil, fmt.Errorf("source state unreadable: %w", err)
		}
		return nil, fmt.Errorf("load source state: %w", err)
	}

	if err := dst.Flush(snap); err != nil {
		return nil, fmt.Errorf("write destination state: %w", err)
	}

	summary := &MigrateSummary{}
	stats := store.CollectStats(store.FromSnapshot(snap))
	summary.Records = stats.Total
	if stats.HasUserInfo {
		summary.Singletons++
	}
	if stats.HasTargetInfo {
		summary.Singletons++
	}
	return summary, nil
}

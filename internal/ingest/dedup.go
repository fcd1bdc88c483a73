// ABOUTME: Natural-key dedup resolution against a record collection.
// ABOUTME: Key-only comparison; field values never influence the verdict.
package ingest

import (
	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/store"
)

// Outcome is the per-record dedup verdict.
type Outcome int

const (
	// Accept inserts the record.
	Accept Outcome = iota
	// Skip discards the record; its natural key is already stored.
	Skip
)

// Resolve decides whether rec enters the collection. Only the natural
// key is compared: a record sharing a key with a stored one is skipped
// even when its field values differ. A corrected reading must arrive
// under a fresh key.
func Resolve(c *store.Collection, rec models.Record) Outcome {
	if c.Has(rec.NaturalKey()) {
		return Skip
	}
	return Accept
}

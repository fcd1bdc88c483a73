// ABOUTME: In-memory per-type record collection with key-indexed dedup.
// ABOUTME: Keeps append order; window scans filter and sort on read.
package store

import (
	"sort"
	"time"

	"github.com/harperreed/ringd/internal/models"
)

// Collection holds the accepted records of one type. It is not safe for
// concurrent use on its own; the owning Store's lock covers it.
type Collection struct {
	recs  []models.Record
	index map[string]struct{}
	last  time.Time
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[string]struct{})}
}

// Has reports whether a record with the given natural key was accepted.
func (c *Collection) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Insert appends a record unless its natural key is already present.
// Returns true if the record was inserted.
func (c *Collection) Insert(rec models.Record) bool {
	key := rec.NaturalKey()
	if _, ok := c.index[key]; ok {
		return false
	}
	c.index[key] = struct{}{}
	c.recs = append(c.recs, rec)
	if et := rec.EffectiveTime(); et.After(c.last) {
		c.last = et
	}
	return true
}

// Count returns the number of accepted records.
func (c *Collection) Count() int {
	return len(c.recs)
}

// LastTimestamp returns the latest effective timestamp of any accepted
// record. ok is false for an empty collection.
func (c *Collection) LastTimestamp() (t time.Time, ok bool) {
	if len(c.recs) == 0 {
		return time.Time{}, false
	}
	return c.last, true
}

// All returns every record in append order.
func (c *Collection) All() []models.Record {
	out := make([]models.Record, len(c.recs))
	copy(out, c.recs)
	return out
}

// AllSince returns records with effective timestamp at or after cutoff,
// ascending by effective timestamp with ties broken by natural key.
// The collection is scanned rather than time-indexed; per-type record
// counts stay in the low thousands.
func (c *Collection) AllSince(cutoff time.Time) []models.Record {
	var out []models.Record
	for _, rec := range c.recs {
		if !rec.EffectiveTime().Before(cutoff) {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out
}

func sortRecords(recs []models.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		ti, tj := recs[i].EffectiveTime(), recs[j].EffectiveTime()
		if ti.Equal(tj) {
			return recs[i].NaturalKey() < recs[j].NaturalKey()
		}
		return ti.Before(tj)
	})
}

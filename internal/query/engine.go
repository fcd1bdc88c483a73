// ABOUTME: QueryEngine: time-windowed, filtered reads over the store.
// ABOUTME: Computes cutoffs, applies per-type filters, orders output.
package query

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/store"
)

const (
	// DefaultHours is the span for hour-windowed collections (7 days).
	DefaultHours = 168
	// DefaultDays is the span for day-windowed collections.
	DefaultDays = 30
)

// Options narrows a window query.
type Options struct {
	// Hours is the span for hour-windowed types; values below 1 fall
	// back to DefaultHours.
	Hours int
	// Days is the span for day-windowed types; values below 1 fall back
	// to DefaultDays.
	Days int
	// IncludeZero keeps heart-rate records whose bpm is 0. Other types
	// always keep zero values, since zero can be a real reading there.
	IncludeZero bool
	// Measurement filters manual measurements by measurement type when
	// non-empty.
	Measurement string
}

// Engine serves reads. Pure: every call recomputes from current state.
type Engine struct {
	store *store.Store
	now   func() time.Time
}

// New returns an engine reading from st.
func New(st *store.Store) *Engine {
	return &Engine{store: st, now: time.Now}
}

// Window returns rt's records inside [now-span, now], ascending by
// effective timestamp with natural-key tiebreak. Future-stamped records
// are held back from reads but stay stored. A window reaching past all
// data returns an empty slice, never an error.
func (e *Engine) Window(rt models.RecordType, opts Options) ([]models.Record, error) {
	def, err := models.Lookup(rt)
	if err != nil {
		return nil, fmt.Errorf("window query: %w", err)
	}

	now := e.now()
	var cutoff time.Time
	if def.Window == models.WindowDays {
		days := opts.Days
		if days < 1 {
			days = DefaultDays
		}
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		cutoff = midnight.AddDate(0, 0, -days)
	} else {
		hours := opts.Hours
		if hours < 1 {
			hours = DefaultHours
		}
		cutoff = now.Add(-time.Duration(hours) * time.Hour)
	}

	out := []models.Record{}
	_ = e.store.View(func(st *store.State) error {
		for _, rec := range st.Collection(rt).AllSince(cutoff) {
			if rec.EffectiveTime().After(now) {
				continue
			}
			if !keep(rt, rec, opts) {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, nil
}

// keep applies the per-type post-filters.
func keep(rt models.RecordType, rec models.Record, opts Options) bool {
	switch rt {
	case models.TypeHeartRate:
		if opts.IncludeZero {
			return true
		}
		hr, ok := rec.(models.HeartRateSample)
		return !ok || hr.BPM != 0
	case models.TypeManual:
		if opts.Measurement == "" {
			return true
		}
		m, ok := rec.(models.ManualMeasurement)
		return ok && m.Measurement == opts.Measurement
	}
	return true
}

// Singleton returns the stored document for a singleton type, or nil.
func (e *Engine) Singleton(rt models.RecordType) json.RawMessage {
	var doc json.RawMessage
	_ = e.store.View(func(st *store.State) error {
		doc = st.Singleton(rt)
		return nil
	})
	return doc
}

// Stats summarizes every collection.
func (e *Engine) Stats() *store.Stats {
	var stats *store.Stats
	_ = e.store.View(func(st *store.State) error {
		stats = store.CollectStats(st)
		return nil
	})
	return stats
}

// ABOUTME: Tests for time-windowed query reads.
// ABOUTME: Covers cutoffs, future holdback, and per-type filters.
package query

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/store"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

func newTestEngine(t *testing.T, recs ...models.Record) *Engine {
	t.Helper()
	st := store.New(nil)
	err := st.Update(func(state *store.State) error {
		for _, rec := range recs {
			state.Collection(rec.Type()).Insert(rec)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	e := New(st)
	e.now = func() time.Time { return testNow }
	return e
}

func stamp(d time.Duration) string {
	return testNow.Add(d).Format("2006-01-02 15:04:05")
}

func TestWindowHours(t *testing.T) {
	e := newTestEngine(t,
		models.HeartRateSample{HRID: 1, BPM: 70, Timestamp: stamp(-2 * time.Hour)},
		models.HeartRateSample{HRID: 2, BPM: 71, Timestamp: stamp(-25 * time.Hour)},
		models.HeartRateSample{HRID: 3, BPM: 72, Timestamp: stamp(-200 * time.Hour)},
	)

	tests := []struct {
		hours    int
		wantKeys []string
	}{
		{24, []string{"1"}},
		{0, []string{"2", "1"}}, // falls back to the 168h default
		{300, []string{"3", "2", "1"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hours=%d", tt.hours), func(t *testing.T) {
			recs, err := e.Window(models.TypeHeartRate, Options{Hours: tt.hours})
			if err != nil {
				t.Fatalf("Window failed: %v", err)
			}
			if len(recs) != len(tt.wantKeys) {
				t.Fatalf("len = %d, want %d", len(recs), len(tt.wantKeys))
			}
			for i, key := range tt.wantKeys {
				if recs[i].NaturalKey() != key {
					t.Errorf("recs[%d] = %q, want %q", i, recs[i].NaturalKey(), key)
				}
			}
		})
	}
}

func TestWindowHoldsBackFutureRecords(t *testing.T) {
	e := newTestEngine(t,
		models.HeartRateSample{HRID: 1, BPM: 70, Timestamp: stamp(-time.Hour)},
		models.HeartRateSample{HRID: 2, BPM: 71, Timestamp: stamp(time.Hour)},
	)

	recs, err := e.Window(models.TypeHeartRate, Options{})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 1 || recs[0].NaturalKey() != "1" {
		t.Errorf("recs = %v, want only the past record", recs)
	}

	// The future record stays stored; it surfaces once now passes it.
	e.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	recs, err = e.Window(models.TypeHeartRate, Options{})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("len = %d, want 2 after time passes", len(recs))
	}
}

func TestWindowDays(t *testing.T) {
	day := func(d int) string { return testNow.AddDate(0, 0, d).Format("2006-01-02") }
	e := newTestEngine(t,
		models.DailyActivitySummary{Day: day(0), TotalStepCount: 100},
		models.DailyActivitySummary{Day: day(-2), TotalStepCount: 200},
		models.DailyActivitySummary{Day: day(-3), TotalStepCount: 300},
	)

	// days=2 cuts at midnight two days back, so day(-2) is inside.
	recs, err := e.Window(models.TypeActivity, Options{Days: 2})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("len = %d, want 2", len(recs))
	}
	if recs[0].NaturalKey() != day(-2) || recs[1].NaturalKey() != day(0) {
		t.Errorf("keys = %q, %q", recs[0].NaturalKey(), recs[1].NaturalKey())
	}
}

func TestWindowZeroHeartRate(t *testing.T) {
	e := newTestEngine(t,
		models.HeartRateSample{HRID: 1, BPM: 0, Timestamp: stamp(-2 * time.Hour)},
		models.HeartRateSample{HRID: 2, BPM: 75, Timestamp: stamp(-time.Hour)},
	)

	recs, err := e.Window(models.TypeHeartRate, Options{})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 1 || recs[0].NaturalKey() != "2" {
		t.Errorf("default should drop bpm=0, got %d records", len(recs))
	}

	recs, err = e.Window(models.TypeHeartRate, Options{IncludeZero: true})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("IncludeZero should keep both, got %d", len(recs))
	}
}

func TestWindowZeroOtherTypesAlwaysKept(t *testing.T) {
	e := newTestEngine(t,
		models.ManualMeasurement{Timestamp: stamp(-time.Hour), Measurement: "stress", Value: 0},
	)
	recs, err := e.Window(models.TypeManual, Options{})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 1 {
		t.Errorf("zero values outside heartrate must survive, got %d", len(recs))
	}
}

func TestWindowManualMeasurementFilter(t *testing.T) {
	e := newTestEngine(t,
		models.ManualMeasurement{Timestamp: stamp(-2 * time.Hour), Measurement: "weight", Value: 80},
		models.ManualMeasurement{Timestamp: stamp(-time.Hour), Measurement: "heartrate", Value: 66},
	)

	recs, err := e.Window(models.TypeManual, Options{Measurement: "weight"})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	m := recs[0].(models.ManualMeasurement)
	if m.Measurement != "weight" {
		t.Errorf("measurement = %q, want weight", m.Measurement)
	}

	recs, err = e.Window(models.TypeManual, Options{})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("no filter should return both, got %d", len(recs))
	}
}

func TestWindowEmptyCollection(t *testing.T) {
	e := newTestEngine(t)
	recs, err := e.Window(models.TypeSleep, Options{})
	if err != nil {
		t.Fatalf("Window failed: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("want empty non-nil slice, got %v", recs)
	}
}

func TestWindowUnknownType(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Window(models.RecordType("steps"), Options{}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestSingleton(t *testing.T) {
	st := store.New(nil)
	_ = st.Update(func(state *store.State) error {
		state.SetSingleton(models.TypeUserInfo, json.RawMessage(`{"name":"harper"}`))
		return nil
	})
	e := New(st)

	if got := e.Singleton(models.TypeUserInfo); string(got) != `{"name":"harper"}` {
		t.Errorf("Singleton = %s", got)
	}
	if got := e.Singleton(models.TypeTargetInfo); got != nil {
		t.Errorf("unset singleton = %s, want nil", got)
	}
}

func TestStats(t *testing.T) {
	e := newTestEngine(t,
		models.HeartRateSample{HRID: 1, BPM: 70, Timestamp: stamp(-time.Hour)},
	)
	stats := e.Stats()
	if stats.Total != 1 || stats.Types["heartrate"].Count != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

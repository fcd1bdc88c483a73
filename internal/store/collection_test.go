// ABOUTME: Tests for the key-indexed record collection.
// ABOUTME: Covers dedup on insert, ordering, and cutoff scans.
package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/harperreed/ringd/internal/models"
)

func hrSample(id, bpm int, ts string) models.HeartRateSample {
	return models.HeartRateSample{HRID: id, BPM: bpm, Timestamp: ts}
}

func TestInsertDeduplicates(t *testing.T) {
	c := NewCollection()

	if !c.Insert(hrSample(1, 70, "2025-01-01 08:00:00")) {
		t.Fatal("first insert should succeed")
	}
	// Same key with different field values is still a duplicate.
	if c.Insert(hrSample(1, 99, "2025-01-01 09:00:00")) {
		t.Error("duplicate key should be rejected")
	}
	if c.Count() != 1 {
		t.Errorf("Count = %d, want 1", c.Count())
	}
	if !c.Has("1") {
		t.Error("expected key 1 to be present")
	}
}

func TestAllSinceOrdering(t *testing.T) {
	c := NewCollection()
	// Inserted out of order; reads come back ascending.
	c.Insert(hrSample(3, 72, "2025-01-01 10:00:00"))
	c.Insert(hrSample(1, 70, "2025-01-01 08:00:00"))
	c.Insert(hrSample(2, 71, "2025-01-01 09:00:00"))

	out := c.AllSince(time.Time{})
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i, wantKey := range []string{"1", "2", "3"} {
		if out[i].NaturalKey() != wantKey {
			t.Errorf("out[%d].NaturalKey() = %q, want %q", i, out[i].NaturalKey(), wantKey)
		}
	}
}

func TestAllSinceTiebreakOnKey(t *testing.T) {
	c := NewCollection()
	ts := "2025-01-01 08:00:00"
	c.Insert(models.ManualMeasurement{Timestamp: ts, Measurement: "weight", Value: 80})
	c.Insert(models.ManualMeasurement{Timestamp: ts, Measurement: "heartrate", Value: 66})

	out := c.AllSince(time.Time{})
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].NaturalKey() > out[1].NaturalKey() {
		t.Errorf("ties should order by natural key: got %q before %q",
			out[0].NaturalKey(), out[1].NaturalKey())
	}
}

func TestAllSinceCutoff(t *testing.T) {
	c := NewCollection()
	c.Insert(hrSample(1, 70, "2025-01-01 08:00:00"))
	c.Insert(hrSample(2, 71, "2025-01-02 08:00:00"))
	c.Insert(hrSample(3, 72, "2025-01-03 08:00:00"))

	cutoff := time.Date(2025, 1, 2, 8, 0, 0, 0, time.Local)
	out := c.AllSince(cutoff)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2 (cutoff is inclusive)", len(out))
	}
	if out[0].NaturalKey() != "2" {
		t.Errorf("first record %q, want 2", out[0].NaturalKey())
	}
}

func TestLastTimestamp(t *testing.T) {
	c := NewCollection()
	if _, ok := c.LastTimestamp(); ok {
		t.Error("empty collection should report no last timestamp")
	}

	c.Insert(hrSample(2, 71, "2025-01-02 08:00:00"))
	c.Insert(hrSample(1, 70, "2025-01-01 08:00:00"))

	last, ok := c.LastTimestamp()
	if !ok {
		t.Fatal("expected a last timestamp")
	}
	want := time.Date(2025, 1, 2, 8, 0, 0, 0, time.Local)
	if !last.Equal(want) {
		t.Errorf("LastTimestamp = %v, want %v", last, want)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := NewCollection()
	for i := 0; i < 5; i++ {
		c.Insert(hrSample(i, 70, fmt.Sprintf("2025-01-01 08:0%d:00", i)))
	}
	out := c.All()
	out[0] = hrSample(99, 0, "2025-01-01 00:00:00")
	if c.All()[0].NaturalKey() == "99" {
		t.Error("All must not expose internal storage")
	}
}

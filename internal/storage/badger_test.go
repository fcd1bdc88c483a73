// ABOUTME: Tests for the Badger persistence backend.
// ABOUTME: Verifies round trips and stale key removal on flush.
package storage

import (
	"testing"

	"github.com/harperreed/ringd/internal/store"
)

func TestBadgerBackendRoundTrip(t *testing.T) {
	b, err := NewBadgerBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerBackend failed: %v", err)
	}
	defer b.Close()

	if err := b.Flush(testSnapshot()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	snap, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.HeartRate) != 1 || snap.HeartRate[0].BPM != 70 {
		t.Errorf("heartrate = %+v", snap.HeartRate)
	}
	if string(snap.UserInfo) != `{"name":"harper"}` {
		t.Errorf("user info = %s", snap.UserInfo)
	}
}

func TestBadgerBackendEmptyLoad(t *testing.T) {
	b, err := NewBadgerBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerBackend failed: %v", err)
	}
	defer b.Close()

	snap, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.HeartRate) != 0 {
		t.Errorf("expected empty snapshot, got %+v", snap.HeartRate)
	}
}

func TestBadgerBackendRemovesStaleKeys(t *testing.T) {
	b, err := NewBadgerBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerBackend failed: %v", err)
	}
	defer b.Close()

	if err := b.Flush(testSnapshot()); err != nil {
		t.Fatalf("first Flush failed: %v", err)
	}
	// The empty snapshot omits user_info entirely; its key must go.
	if err := b.Flush(&store.Snapshot{}); err != nil {
		t.Fatalf("second Flush failed: %v", err)
	}

	snap, err := b.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.UserInfo) != 0 {
		t.Errorf("stale user_info survived: %s", snap.UserInfo)
	}
	if len(snap.HeartRate) != 0 {
		t.Errorf("heartrate = %+v", snap.HeartRate)
	}
}

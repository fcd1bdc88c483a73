// ABOUTME: Tests for backend-to-backend data migration.
// ABOUTME: Covers summaries, corrupt sources, and cross-backend copies.
package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrateFileToSQLite(t *testing.T) {
	src, err := NewFileBackend(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	if err := src.Flush(testSnapshot()); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	dst, err := NewSQLiteBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	defer dst.Close()

	summary, err := Migrate(src, dst)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if summary.Records != 2 {
		t.Errorf("Records = %d, want 2", summary.Records)
	}
	if summary.Singletons != 1 {
		t.Errorf("Singletons = %d, want 1", summary.Singletons)
	}

	snap, err := dst.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.HeartRate) != 1 || len(snap.Sleep) != 1 {
		t.Errorf("migrated snapshot = hr:%d sleep:%d", len(snap.HeartRate), len(snap.Sleep))
	}
}

func TestMigrateEmptySource(t *testing.T) {
	src, err := NewFileBackend(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	dst, err := NewFileBackend(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	summary, err := Migrate(src, dst)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if summary.Records != 0 || summary.Singletons != 0 {
		t.Errorf("summary = %+v, want zeros", summary)
	}
}

func TestMigrateCorruptSourceFails(t *testing.T) {
	dir := t.TempDir()
	src, err := NewFileBackend(dir, false)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, StateFileName), []byte("{broken"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	dst, err := NewFileBackend(t.TempDir(), false)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	if _, err := Migrate(src, dst); err == nil {
		t.Fatal("migrating a corrupt source must fail, not write an empty destination")
	}
	if dst.Exists() {
		t.Error("destination must stay untouched after a failed migration")
	}
}

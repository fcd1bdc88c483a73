// ABOUTME: Tests for MCP server construction and tool handlers.
// ABOUTME: Calls handlers directly against a seeded query engine.
package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/query"
	"github.com/harperreed/ringd/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.New(nil)
	err := st.Update(func(state *store.State) error {
		state.Collection(models.TypeHeartRate).Insert(models.HeartRateSample{
			HRID: 1, BPM: 70,
			Timestamp: time.Now().Add(-time.Hour).Format("2006-01-02 15:04:05"),
		})
		state.SetSingleton(models.TypeUserInfo, json.RawMessage(`{"name":"harper"}`))
		return nil
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	s, err := NewServer(query.New(st), "test")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func TestHandleGetStats(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleGetStats(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handleGetStats failed: %v", err)
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
	if out.Types["heartrate"].Count != 1 {
		t.Errorf("heartrate count = %d, want 1", out.Types["heartrate"].Count)
	}
	if !out.HasUserInfo || out.HasTargetInfo {
		t.Errorf("singleton flags = %v/%v", out.HasUserInfo, out.HasTargetInfo)
	}
}

func TestHandleQueryRecords(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleQueryRecords(context.Background(), nil, queryRecordsInput{
		RecordType: "heartrate",
		Hours:      24,
	})
	if err != nil {
		t.Fatalf("handleQueryRecords failed: %v", err)
	}
	if out.Count != 1 || len(out.Records) != 1 {
		t.Errorf("out = %+v, want one record", out)
	}
}

func TestHandleQueryRecordsRejectsBadTypes(t *testing.T) {
	s := newTestServer(t)

	for _, name := range []string{"steps", "user_info", ""} {
		if _, _, err := s.handleQueryRecords(context.Background(), nil, queryRecordsInput{RecordType: name}); err == nil {
			t.Errorf("record_type %q: expected error", name)
		}
	}
}

func TestHandleGetUserProfile(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleGetUserProfile(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handleGetUserProfile failed: %v", err)
	}
	doc, ok := out.(json.RawMessage)
	if !ok {
		t.Fatalf("out = %T, want json.RawMessage", out)
	}
	if string(doc) != `{"name":"harper"}` {
		t.Errorf("doc = %s", doc)
	}

	// Targets were never uploaded; the tool reports that politely.
	_, out, err = s.handleGetTargets(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handleGetTargets failed: %v", err)
	}
	if _, ok := out.(map[string]any); !ok {
		t.Errorf("out = %T, want message map", out)
	}
}

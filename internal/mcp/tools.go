// ABOUTME: MCP tool implementations for the biometric record store.
// ABOUTME: Provides read-only windows, stats, and profile lookups.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harperreed/ringd/internal/models"
	"github.com/harperreed/ringd/internal/query"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// get_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_stats",
		Description: "Get record counts and last-seen timestamps per record type",
	}, s.handleGetStats)

	// query_records
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_records",
		Description: "Query recent records of a given type within a time window",
	}, s.handleQueryRecords)

	// get_user_profile
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_user_profile",
		Description: "Get the stored user profile document",
	}, s.handleGetUserProfile)

	// get_targets
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_targets",
		Description: "Get the stored goal/target document",
	}, s.handleGetTargets)
}

// Tool input/output types

type queryRecordsInput struct {
	RecordType  string `json:"record_type" jsonschema:"Record type (heartrate, hrv, stress, blood_oxygen, activity, sleep, exercise, sport_plus, sedentary, manual_measurements)"`
	Hours       int    `json:"hours,omitempty" jsonschema:"Window size in hours for hour-windowed types (default 168)"`
	Days        int    `json:"days,omitempty" jsonschema:"Window size in days for day-windowed types (default 30)"`
	IncludeZero bool   `json:"include_zero,omitempty" jsonschema:"Include zero-valued heart rate samples"`
	Measurement string `json:"measurement,omitempty" jsonschema:"Filter manual measurements by measurement type"`
}

type queryRecordsOutput struct {
	RecordType string          `json:"record_type"`
	Count      int             `json:"count"`
	Records    []models.Record `json:"records"`
}

type typeStatsOutput struct {
	Count      int    `json:"count"`
	LastRecord string `json:"last_record,omitempty"`
	LastUpdate string `json:"last_update,omitempty"`
}

type statsOutput struct {
	Types         map[string]typeStatsOutput `json:"types"`
	Total         int                        `json:"total"`
	HasUserInfo   bool                       `json:"has_user_info"`
	HasTargetInfo bool                       `json:"has_target_info"`
}

// Tool handlers

func (s *Server) handleGetStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, statsOutput, error) {
	stats := s.engine.Stats()

	out := statsOutput{
		Types:         make(map[string]typeStatsOutput, len(stats.Types)),
		Total:         stats.Total,
		HasUserInfo:   stats.HasUserInfo,
		HasTargetInfo: stats.HasTargetInfo,
	}
	for name, ts := range stats.Types {
		entry := typeStatsOutput{Count: ts.Count}
		if ts.LastRecord != nil {
			entry.LastRecord = ts.LastRecord.Format("2006-01-02 15:04:05")
		}
		if ts.LastUpdate != nil {
			entry.LastUpdate = ts.LastUpdate.Format("2006-01-02 15:04:05")
		}
		out.Types[name] = entry
	}

	return nil, out, nil
}

func (s *Server) handleQueryRecords(ctx context.Context, req *mcp.CallToolRequest, input queryRecordsInput) (*mcp.CallToolResult, queryRecordsOutput, error) {
	rt := models.RecordType(input.RecordType)
	if !models.IsValidRecordType(input.RecordType) || models.IsSingletonType(rt) {
		return nil, queryRecordsOutput{}, fmt.Errorf("unknown record type: %s", input.RecordType)
	}

	opts := query.Options{
		Hours:       query.DefaultHours,
		Days:        query.DefaultDays,
		IncludeZero: input.IncludeZero,
		Measurement: input.Measurement,
	}
	if input.Hours > 0 {
		opts.Hours = input.Hours
	}
	if input.Days > 0 {
		opts.Days = input.Days
	}

	recs, err := s.engine.Window(rt, opts)
	if err != nil {
		return nil, queryRecordsOutput{}, fmt.Errorf("failed to query %s: %w", input.RecordType, err)
	}

	return nil, queryRecordsOutput{
		RecordType: input.RecordType,
		Count:      len(recs),
		Records:    recs,
	}, nil
}

func (s *Server) handleGetUserProfile(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	return nil, s.singleton(models.TypeUserInfo, "No user profile stored."), nil
}

func (s *Server) handleGetTargets(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	return nil, s.singleton(models.TypeTargetInfo, "No targets stored."), nil
}

func (s *Server) singleton(rt models.RecordType, empty string) any {
	doc := s.engine.Singleton(rt)
	if len(doc) == 0 {
		return map[string]any{"message": empty}
	}
	return json.RawMessage(doc)
}

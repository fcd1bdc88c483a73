// ABOUTME: On-demand per-type count and recency summaries.
// ABOUTME: Recomputed from live state on every call; nothing is cached.
package store

import (
	"time"

	"github.com/harperreed/ringd/internal/models"
)

// TypeStats summarizes one collection.
type TypeStats struct {
	Count int `json:"count"`
	// LastRecord is the latest effective timestamp of any stored record.
	LastRecord *time.Time `json:"last_record,omitempty"`
	// LastUpdate is the wall-clock time of the last accepted upload.
	LastUpdate *time.Time `json:"last_update,omitempty"`
}

// Stats is the full stats payload.
type Stats struct {
	Types         map[string]TypeStats `json:"types"`
	Total         int                  `json:"total"`
	HasUserInfo   bool                 `json:"has_user_info"`
	HasTargetInfo bool                 `json:"has_target_info"`
}

// CollectStats summarizes every collection. The caller must hold at
// least a read view on the owning store.
func CollectStats(st *State) *Stats {
	stats := &Stats{Types: make(map[string]TypeStats, len(models.AllRecordTypes))}
	for _, rt := range models.AllRecordTypes {
		c := st.Collection(rt)
		ts := TypeStats{Count: c.Count()}
		if last, ok := c.LastTimestamp(); ok {
			ts.LastRecord = &last
		}
		if upd, ok := st.LastUpdate(rt); ok {
			ts.LastUpdate = &upd
		}
		stats.Types[string(rt)] = ts
		stats.Total += ts.Count
	}
	stats.HasUserInfo = len(st.Singleton(models.TypeUserInfo)) > 0
	stats.HasTargetInfo = len(st.Singleton(models.TypeTargetInfo)) > 0
	return stats
}

// ABOUTME: Process-wide record state: all collections plus singletons.
// ABOUTME: Converts to and from the serializable full snapshot.
package store

import (
	"encoding/json"
	"time"

	"github.com/harperreed/ringd/internal/models"
)

// State is the complete in-memory dataset. It is owned by a Store and
// only touched inside View/Update closures.
type State struct {
	collections map[models.RecordType]*Collection
	userInfo    json.RawMessage
	targetInfo  json.RawMessage
	lastUpdate  map[models.RecordType]time.Time
}

// NewState returns an empty state with one collection per record type.
func NewState() *State {
	st := &State{
		collections: make(map[models.RecordType]*Collection, len(models.AllRecordTypes)),
		lastUpdate:  make(map[models.RecordType]time.Time),
	}
	for _, rt := range models.AllRecordTypes {
		st.collections[rt] = NewCollection()
	}
	return st
}

// Collection returns the collection for a record type. Unknown types
// return nil; callers validate the type at the boundary.
func (st *State) Collection(rt models.RecordType) *Collection {
	return st.collections[rt]
}

// Singleton returns the stored document for a singleton type.
func (st *State) Singleton(rt models.RecordType) json.RawMessage {
	switch rt {
	case models.TypeUserInfo:
		return st.userInfo
	case models.TypeTargetInfo:
		return st.targetInfo
	}
	return nil
}

// SetSingleton overwrites a singleton document wholesale.
func (st *State) SetSingleton(rt models.RecordType, doc json.RawMessage) {
	switch rt {
	case models.TypeUserInfo:
		st.userInfo = doc
	case models.TypeTargetInfo:
		st.targetInfo = doc
	}
}

// Touch records the wall-clock time of the last accepted upload for rt.
func (st *State) Touch(rt models.RecordType, now time.Time) {
	st.lastUpdate[rt] = now
}

// LastUpdate returns the wall-clock time of the last accepted upload.
func (st *State) LastUpdate(rt models.RecordType) (time.Time, bool) {
	t, ok := st.lastUpdate[rt]
	return t, ok
}

// Snapshot is the serializable view of the full state. Its JSON layout
// is the durable document: one array per collection plus the two
// singleton documents and the per-type last-update map.
type Snapshot struct {
	HeartRate   []models.HeartRateSample      `json:"heartrate"`
	HRV         []models.HRVSample            `json:"hrv"`
	Stress      []models.StressSample         `json:"stress"`
	BloodOxygen []models.BloodOxygenSample    `json:"blood_oxygen"`
	Activity    []models.DailyActivitySummary `json:"activity"`
	Sleep       []models.SleepSummary         `json:"sleep"`
	Exercise    []models.ExerciseSession      `json:"exercise"`
	SportPlus   []models.SportPlusSession     `json:"sport_plus"`
	Sedentary   []models.SedentaryAlert       `json:"sedentary"`
	Manual      []models.ManualMeasurement    `json:"manual_measurements"`
	UserInfo    json.RawMessage               `json:"user_info,omitempty"`
	TargetInfo  json.RawMessage               `json:"target_info,omitempty"`
	LastUpdate  map[string]time.Time          `json:"last_update"`
}

func collect[T models.Record](c *Collection) []T {
	var out []T
	for _, rec := range c.All() {
		if v, ok := rec.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func seed[T models.Record](c *Collection, recs []T) {
	for _, rec := range recs {
		c.Insert(rec)
	}
}

// Snapshot builds the serializable view of the current state.
func (st *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		HeartRate:   collect[models.HeartRateSample](st.collections[models.TypeHeartRate]),
		HRV:         collect[models.HRVSample](st.collections[models.TypeHRV]),
		Stress:      collect[models.StressSample](st.collections[models.TypeStress]),
		BloodOxygen: collect[models.BloodOxygenSample](st.collections[models.TypeBloodOxygen]),
		Activity:    collect[models.DailyActivitySummary](st.collections[models.TypeActivity]),
		Sleep:       collect[models.SleepSummary](st.collections[models.TypeSleep]),
		Exercise:    collect[models.ExerciseSession](st.collections[models.TypeExercise]),
		SportPlus:   collect[models.SportPlusSession](st.collections[models.TypeSportPlus]),
		Sedentary:   collect[models.SedentaryAlert](st.collections[models.TypeSedentary]),
		Manual:      collect[models.ManualMeasurement](st.collections[models.TypeManual]),
		UserInfo:    st.userInfo,
		TargetInfo:  st.targetInfo,
		LastUpdate:  make(map[string]time.Time, len(st.lastUpdate)),
	}
	for rt, t := range st.lastUpdate {
		snap.LastUpdate[string(rt)] = t
	}
	return snap
}

// FromSnapshot rebuilds state from a loaded snapshot. Records pass
// through the same key index as live ingestion, so a hand-edited file
// with duplicate keys loads deduplicated.
func FromSnapshot(snap *Snapshot) *State {
	st := NewState()
	if snap == nil {
		return st
	}
	seed(st.collections[models.TypeHeartRate], snap.HeartRate)
	seed(st.collections[models.TypeHRV], snap.HRV)
	seed(st.collections[models.TypeStress], snap.Stress)
	seed(st.collections[models.TypeBloodOxygen], snap.BloodOxygen)
	seed(st.collections[models.TypeActivity], snap.Activity)
	seed(st.collections[models.TypeSleep], snap.Sleep)
	seed(st.collections[models.TypeExercise], snap.Exercise)
	seed(st.collections[models.TypeSportPlus], snap.SportPlus)
	seed(st.collections[models.TypeSedentary], snap.Sedentary)
	seed(st.collections[models.TypeManual], snap.Manual)
	st.userInfo = snap.UserInfo
	st.targetInfo = snap.TargetInfo
	for name, t := range snap.LastUpdate {
		st.lastUpdate[models.RecordType(name)] = t
	}
	return st
}

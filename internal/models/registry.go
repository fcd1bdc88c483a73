// ABOUTME: RecordTypeRegistry mapping each collection to its schema rule.
// ABOUTME: Declares required fields, decoding, and window kind per type.
package models

import (
	"encoding/json"
	"fmt"
)

// WindowKind selects the query-window parameter a collection uses.
type WindowKind int

const (
	// WindowHours collections filter by an `hours` span (default 168).
	WindowHours WindowKind = iota
	// WindowDays collections filter by a `days` span (default 30).
	WindowDays
)

// Definition is the registry entry for one collection.
type Definition struct {
	Type RecordType
	// RequiredFields must all be present on every uploaded element.
	RequiredFields []string
	// Decode turns a validated payload element into a typed record.
	Decode func(raw json.RawMessage) (Record, error)
	// Window is the span parameter the collection's reads use.
	Window WindowKind
}

func decodeAs[T Record](raw json.RawMessage) (Record, error) {
	var rec T
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Registry holds the schema rule for every deduplicated collection.
// Singleton types are not listed; they carry no schema beyond being a
// JSON object.
var Registry = map[RecordType]Definition{
	TypeHeartRate: {
		Type:           TypeHeartRate,
		RequiredFields: []string{"hrId", "timestamp", "bpm"},
		Decode:         decodeAs[HeartRateSample],
		Window:         WindowHours,
	},
	TypeHRV: {
		Type:           TypeHRV,
		RequiredFields: []string{"hrvId", "hrv", "date", "secondInterval"},
		Decode:         decodeAs[HRVSample],
		Window:         WindowHours,
	},
	TypeStress: {
		Type:           TypeStress,
		RequiredFields: []string{"stressId", "stress", "date", "secondInterval"},
		Decode:         decodeAs[StressSample],
		Window:         WindowHours,
	},
	TypeBloodOxygen: {
		Type:           TypeBloodOxygen,
		RequiredFields: []string{"date", "device", "soa2"},
		Decode:         decodeAs[BloodOxygenSample],
		Window:         WindowHours,
	},
	TypeActivity: {
		Type:           TypeActivity,
		RequiredFields: []string{"day", "totalStepCount"},
		Decode:         decodeAs[DailyActivitySummary],
		Window:         WindowDays,
	},
	TypeSleep: {
		Type:           TypeSleep,
		RequiredFields: []string{"date", "duration"},
		Decode:         decodeAs[SleepSummary],
		Window:         WindowDays,
	},
	TypeExercise: {
		Type:           TypeExercise,
		RequiredFields: []string{"startTime", "type"},
		Decode:         decodeAs[ExerciseSession],
		Window:         WindowHours,
	},
	TypeSportPlus: {
		Type:           TypeSportPlus,
		RequiredFields: []string{"startTime"},
		Decode:         decodeAs[SportPlusSession],
		Window:         WindowHours,
	},
	TypeSedentary: {
		Type:           TypeSedentary,
		RequiredFields: []string{"date", "type"},
		Decode:         decodeAs[SedentaryAlert],
		Window:         WindowHours,
	},
	TypeManual: {
		Type:           TypeManual,
		RequiredFields: []string{"timestamp", "measurementType"},
		Decode:         decodeAs[ManualMeasurement],
		Window:         WindowHours,
	},
}

// Lookup returns the registry entry for a collection.
func Lookup(rt RecordType) (Definition, error) {
	def, ok := Registry[rt]
	if !ok {
		return Definition{}, fmt.Errorf("no registry entry for type %q", rt)
	}
	return def, nil
}

// CheckRegistry verifies every declared record type has a usable rule.
// A gap is a programming error; callers run this at startup and abort
// rather than failing per request.
func CheckRegistry() error {
	for _, rt := range AllRecordTypes {
		def, ok := Registry[rt]
		if !ok {
			return fmt.Errorf("record type %q missing from registry", rt)
		}
		if def.Decode == nil {
			return fmt.Errorf("record type %q has no decoder", rt)
		}
		if len(def.RequiredFields) == 0 {
			return fmt.Errorf("record type %q declares no required fields", rt)
		}
		if def.Type != rt {
			return fmt.Errorf("record type %q registered under %q", def.Type, rt)
		}
	}
	return nil
}

// ABOUTME: Record model and RecordType enum for smart-ring biometric data.
// ABOUTME: Defines 10 sample collections plus the profile/target singletons.
package models

import (
	"fmt"
	"strconv"
	"time"
)

// RecordType identifies one of the per-metric collections.
type RecordType string

const (
	TypeHeartRate   RecordType = "heartrate"
	TypeHRV         RecordType = "hrv"
	TypeStress      RecordType = "stress"
	TypeBloodOxygen RecordType = "blood_oxygen"
	TypeActivity    RecordType = "activity"
	TypeSleep       RecordType = "sleep"
	TypeExercise    RecordType = "exercise"
	TypeSportPlus   RecordType = "sport_plus"
	TypeSedentary   RecordType = "sedentary"
	TypeManual      RecordType = "manual_measurements"

	// Singleton documents, overwritten wholesale on each upload.
	TypeUserInfo   RecordType = "user_info"
	TypeTargetInfo RecordType = "target_info"
)

// AllRecordTypes lists the deduplicated sample collections, in the order
// they appear in exports and stats output.
var AllRecordTypes = []RecordType{
	TypeHeartRate, TypeHRV, TypeStress, TypeBloodOxygen,
	TypeActivity, TypeSleep, TypeExercise, TypeSportPlus,
	TypeSedentary, TypeManual,
}

// SingletonTypes lists the single-document collections.
var SingletonTypes = []RecordType{TypeUserInfo, TypeTargetInfo}

// IsValidRecordType checks if a string names a known collection,
// singletons included.
func IsValidRecordType(s string) bool {
	for _, rt := range AllRecordTypes {
		if string(rt) == s {
			return true
		}
	}
	for _, rt := range SingletonTypes {
		if string(rt) == s {
			return true
		}
	}
	return false
}

// IsSingletonType reports whether s is one of the singleton collections.
func IsSingletonType(rt RecordType) bool {
	return rt == TypeUserInfo || rt == TypeTargetInfo
}

// Record is a single accepted biometric sample. Records are value types
// and never mutate after acceptance; both key and effective time are pure
// functions of the stored fields.
type Record interface {
	// Type names the collection the record belongs to.
	Type() RecordType
	// NaturalKey is the dedup key within the collection.
	NaturalKey() string
	// EffectiveTime is the timestamp the record sorts and filters by,
	// reconstructed for types whose stored date has no time of day.
	EffectiveTime() time.Time
	// Validate checks field constraints beyond JSON well-formedness.
	Validate() error
}

// HeartRateSample is a continuously sampled heart-rate reading.
type HeartRateSample struct {
	HRID      int    `json:"hrId"`
	BPM       int    `json:"bpm"`
	Timestamp string `json:"timestamp"`
}

func (s HeartRateSample) Type() RecordType { return TypeHeartRate }

func (s HeartRateSample) NaturalKey() string { return strconv.Itoa(s.HRID) }

func (s HeartRateSample) EffectiveTime() time.Time {
	t, _ := ParseTime(s.Timestamp)
	return t
}

func (s HeartRateSample) Validate() error {
	if _, err := ParseTime(s.Timestamp); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	return nil
}

// HRVSample is a heart-rate-variability reading. The device reports a
// calendar date plus a slot id; the wall-clock time is the slot id times
// the sampling interval past midnight.
type HRVSample struct {
	HRVID          int    `json:"hrvId"`
	HRV            int    `json:"hrv"`
	Date           string `json:"date"`
	SecondInterval int    `json:"secondInterval"`
}

func (s HRVSample) Type() RecordType { return TypeHRV }

func (s HRVSample) NaturalKey() string {
	return DatePart(s.Date) + "#" + strconv.Itoa(s.HRVID)
}

func (s HRVSample) EffectiveTime() time.Time {
	return slotTime(s.Date, s.HRVID, s.SecondInterval)
}

func (s HRVSample) Validate() error {
	if _, err := ParseTime(s.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s.SecondInterval < 0 {
		return fmt.Errorf("secondInterval must not be negative")
	}
	return nil
}

// StressSample is a stress-score reading, slotted like HRV.
type StressSample struct {
	StressID       int    `json:"stressId"`
	Stress         int    `json:"stress"`
	Date           string `json:"date"`
	SecondInterval int    `json:"secondInterval"`
}

func (s StressSample) Type() RecordType { return TypeStress }

func (s StressSample) NaturalKey() string {
	return DatePart(s.Date) + "#" + strconv.Itoa(s.StressID)
}

func (s StressSample) EffectiveTime() time.Time {
	return slotTime(s.Date, s.StressID, s.SecondInterval)
}

func (s StressSample) Validate() error {
	if _, err := ParseTime(s.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	if s.SecondInterval < 0 {
		return fmt.Errorf("secondInterval must not be negative")
	}
	return nil
}

// slotTime reconstructs the wall-clock time of a slotted sample. A date
// that already carries a time of day wins over the slot arithmetic.
func slotTime(date string, id, interval int) time.Time {
	if HasClock(date) {
		t, _ := ParseTime(date)
		return t
	}
	midnight, err := Midnight(date)
	if err != nil {
		return time.Time{}
	}
	return midnight.Add(time.Duration(id*interval) * time.Second)
}

// BloodOxygenSample is an SpO2 reading from a specific device.
type BloodOxygenSample struct {
	Date   string `json:"date"`
	SpO2   int    `json:"soa2"`
	Device string `json:"device"`
}

func (s BloodOxygenSample) Type() RecordType { return TypeBloodOxygen }

func (s BloodOxygenSample) NaturalKey() string { return s.Date + "#" + s.Device }

func (s BloodOxygenSample) EffectiveTime() time.Time {
	t, _ := ParseTime(s.Date)
	return t
}

func (s BloodOxygenSample) Validate() error {
	if _, err := ParseTime(s.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return nil
}

// DailyActivitySummary aggregates one calendar day of movement.
type DailyActivitySummary struct {
	Day            string  `json:"day"`
	TotalStepCount int     `json:"totalStepCount"`
	RunStepCount   int     `json:"runStepCount"`
	Calories       float64 `json:"calories"`
	Distance       int     `json:"distance"`
	ActiveTime     int     `json:"activeTime"`
	HappenDate     string  `json:"happenDate,omitempty"`
}

func (s DailyActivitySummary) Type() RecordType { return TypeActivity }

func (s DailyActivitySummary) NaturalKey() string { return s.Day }

func (s DailyActivitySummary) EffectiveTime() time.Time {
	t, _ := Midnight(s.Day)
	return t
}

func (s DailyActivitySummary) Validate() error {
	if _, err := Midnight(s.Day); err != nil {
		return fmt.Errorf("day: %w", err)
	}
	return nil
}

// SleepSummary aggregates one night of sleep, in minutes per stage.
type SleepSummary struct {
	Date         string `json:"date"`
	Duration     int    `json:"duration"`
	Awake        int    `json:"awake"`
	Light        int    `json:"light"`
	Deep         int    `json:"deep"`
	REM          int    `json:"rem"`
	BedtimeStart string `json:"bedtimeStart,omitempty"`
	BedtimeEnd   string `json:"bedtimeEnd,omitempty"`
}

func (s SleepSummary) Type() RecordType { return TypeSleep }

func (s SleepSummary) NaturalKey() string { return s.Date }

func (s SleepSummary) EffectiveTime() time.Time {
	t, _ := Midnight(s.Date)
	return t
}

func (s SleepSummary) Validate() error {
	if _, err := Midnight(s.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return nil
}

// ExerciseSession is a tracked workout.
type ExerciseSession struct {
	StartTime string  `json:"startTime"`
	Exercise  string  `json:"type"`
	Duration  int     `json:"duration"`
	Calories  float64 `json:"calories"`
	Distance  int     `json:"distance,omitempty"`
	AverageHR int     `json:"averageHR,omitempty"`
}

func (s ExerciseSession) Type() RecordType { return TypeExercise }

func (s ExerciseSession) NaturalKey() string { return s.StartTime + "#" + s.Exercise }

func (s ExerciseSession) EffectiveTime() time.Time {
	t, _ := ParseTime(s.StartTime)
	return t
}

func (s ExerciseSession) Validate() error {
	if _, err := ParseTime(s.StartTime); err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	return nil
}

// SportPlusSession is an enhanced-tracking workout.
type SportPlusSession struct {
	StartTime string  `json:"startTime"`
	Duration  int     `json:"duration"`
	Calories  float64 `json:"calories"`
	AverageHR int     `json:"averageHR,omitempty"`
}

func (s SportPlusSession) Type() RecordType { return TypeSportPlus }

func (s SportPlusSession) NaturalKey() string { return s.StartTime }

func (s SportPlusSession) EffectiveTime() time.Time {
	t, _ := ParseTime(s.StartTime)
	return t
}

func (s SportPlusSession) Validate() error {
	if _, err := ParseTime(s.StartTime); err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	return nil
}

// SedentaryAlert records an inactivity nudge raised by the ring.
type SedentaryAlert struct {
	Date     string `json:"date"`
	Alert    string `json:"type"`
	Duration int    `json:"duration,omitempty"`
	EndTime  string `json:"endTime,omitempty"`
}

func (s SedentaryAlert) Type() RecordType { return TypeSedentary }

func (s SedentaryAlert) NaturalKey() string { return s.Date + "#" + s.Alert }

func (s SedentaryAlert) EffectiveTime() time.Time {
	t, _ := ParseTime(s.Date)
	return t
}

func (s SedentaryAlert) Validate() error {
	if _, err := ParseTime(s.Date); err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return nil
}

// ManualMeasurement is an on-demand reading the wearer triggered,
// as opposed to the ring's continuous sampling.
type ManualMeasurement struct {
	Timestamp   string  `json:"timestamp"`
	Measurement string  `json:"measurementType"`
	Value       float64 `json:"value"`
	Unit        string  `json:"unit,omitempty"`
}

func (s ManualMeasurement) Type() RecordType { return TypeManual }

func (s ManualMeasurement) NaturalKey() string {
	return s.Timestamp + "#" + s.Measurement
}

func (s ManualMeasurement) EffectiveTime() time.Time {
	t, _ := ParseTime(s.Timestamp)
	return t
}

func (s ManualMeasurement) Validate() error {
	if _, err := ParseTime(s.Timestamp); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	return nil
}

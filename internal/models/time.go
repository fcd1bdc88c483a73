// ABOUTME: Timestamp parsing for device-supplied date strings.
// ABOUTME: Accepts ISO 8601, space-separated, and date-only layouts.
package models

import (
	"fmt"
	"strings"
	"time"
)

// timeLayouts are tried in order. The companion app sends RFC 3339 for
// converted samples and "2006-01-02 15:04:05" for raw device rows; slot
// and summary types carry a bare date.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a device timestamp string. Layouts without an offset
// are interpreted in local time.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timeLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// HasClock reports whether s carries a time-of-day component rather than
// a bare calendar date.
func HasClock(s string) bool {
	return len(strings.TrimSpace(s)) > len("2006-01-02")
}

// DatePart returns the calendar-date portion of a timestamp string.
func DatePart(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// Midnight returns 00:00 local time on the calendar date of s.
func Midnight(s string) (time.Time, error) {
	d := DatePart(s)
	t, err := time.ParseInLocation("2006-01-02", d, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return t, nil
}

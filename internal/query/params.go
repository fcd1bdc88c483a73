// ABOUTME: Lenient parsing of window query parameters.
// ABOUTME: Malformed or out-of-range values fall back to the default.
package query

import "strconv"

// SpanHours parses an `hours` parameter. Empty, non-numeric, or
// non-positive input yields DefaultHours: reads stay best-effort and a
// bad parameter never fails a dashboard request.
func SpanHours(raw string) int {
	return span(raw, DefaultHours)
}

// SpanDays parses a `days` parameter with the same fallback rule.
func SpanDays(raw string) int {
	return span(raw, DefaultDays)
}

func span(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

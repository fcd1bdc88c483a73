// ABOUTME: Uniform JSON response envelope for the dashboard API.
// ABOUTME: Success carries data/count/timestamp; failure carries error.
package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// envelope is the wire shape of every API response. Data stays in the
// document even when null so clients can key on it unconditionally.
type envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data"`
	Count     *int   `json:"count,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Error     string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// respondData writes a success envelope around a single object.
func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// respondList writes a success envelope with a record count.
func respondList(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, envelope{
		Success:   true,
		Data:      data,
		Count:     &count,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// respondError writes the failure envelope.
func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// Package httpx holds the small shared HTTP helpers: JSON responses,
// middleware chaining, and bearer-token authentication middleware.
package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code. Cache headers
// are always suppressed since most of our responses carry tokens or account
// state.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the standard {"error": msg} failure body.
func Error(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"error": msg})
}

// InternalError writes a 500 with the underlying error surfaced in a
// "details" field. This is an internal tool-grade system, operability beats
// hiding the cause.
func InternalError(w http.ResponseWriter, msg string, err error) {
	body := map[string]string{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	WriteJSON(w, http.StatusInternalServerError, body)
}

// NoCache sets Cache-Control and Pragma headers to prevent caching.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

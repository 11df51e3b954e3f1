package httpx

import (
	"encoding/json"
	"net/http"
)

// DetailResponse is the error (and occasionally success) body shape used
// across the API: {"detail": "..."}.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// WriteJSON writes a JSON response with the given status code. It sets the
// Content-Type and no-store cache headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes a {"detail": msg} body with the given status code.
func WriteDetail(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, DetailResponse{Detail: msg})
}

// NoCache sets Cache-Control and Pragma headers to prevent caching. Required
// for responses carrying tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}

package inspect

import (
	"encoding/json"
	"net/http"
)

// ── JSON responses ────────────────────────────────────────────────────────────

type envelope map[string]any

// writeJSON sends v as a JSON response with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// success sends 200 JSON: {"data": v}
func success(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, envelope{"data": v})
}

// notFound sends 404 JSON: {"message": msg}
func notFound(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusNotFound, envelope{"message": msg})
}

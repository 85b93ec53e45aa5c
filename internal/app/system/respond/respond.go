// internal/app/system/respond/respond.go
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/careware/hausportal/internal/app/system/limits"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Success writes {"success": true, "message": msg} with status 200.
func Success(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
}

// Created writes {"success": true, "message": msg} with status 201.
func Created(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusCreated, map[string]any{"success": true, "message": msg})
}

// DecodeJSON reads a size-limited JSON body into v. On failure it
// writes the 400 response itself and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxJSONBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "Ungültige Anfrage")
		return false
	}
	return true
}

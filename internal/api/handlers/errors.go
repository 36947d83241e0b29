package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/mvoisin/mediaserv/internal/controllers"
)

// writeJSON encodes v as the JSON response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps internal errors to client responses without leaking
// filesystem details
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, controllers.ErrUnsupportedFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unsupported subtitle format"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

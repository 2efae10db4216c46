package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/narrateapp/narrate/internal/httperr"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError renders any error as {"detail": message} with the status it
// carries, defaulting to 500 for errors without one.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httperr.StatusOf(err), map[string]string{"detail": err.Error()})
}

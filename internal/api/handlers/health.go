package handlers

import (
	"net/http"

	"github.com/narrateapp/narrate/internal/tts"
)

type HealthHandler struct {
	dispatcher *tts.Dispatcher
}

func NewHealthHandler(dispatcher *tts.Dispatcher) *HealthHandler {
	return &HealthHandler{dispatcher: dispatcher}
}

// Health reports provider connectivity. The endpoint itself always answers
// 200; an unreachable local server shows up as a status value.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"providers": h.dispatcher.HealthStatus(r.Context()),
	})
}

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/narrateapp/narrate/internal/catalog"
	"github.com/narrateapp/narrate/internal/tts"
)

type TTSHandler struct {
	dispatcher *tts.Dispatcher
}

func NewTTSHandler(dispatcher *tts.Dispatcher) *TTSHandler {
	return &TTSHandler{dispatcher: dispatcher}
}

type ttsRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Voice    string `json:"voice"`
	APIKey   string `json:"api_key"`
	VoiceID  string `json:"voice_id"`
}

// Generate converts text to speech and streams the audio back as a download.
// voice_id is the front-end's field for cloned voices and takes precedence
// over voice.
func (h *TTSHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid request body"})
		return
	}

	if req.Provider == "" {
		req.Provider = catalog.DefaultProvider
	}
	if req.Model == "" {
		req.Model = catalog.DefaultModel
	}
	voice := req.Voice
	if req.VoiceID != "" {
		voice = req.VoiceID
	}

	result, err := h.dispatcher.Synthesize(r.Context(), tts.Request{
		Text:     req.Text,
		Provider: req.Provider,
		Model:    req.Model,
		Voice:    voice,
		APIKey:   req.APIKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	u := uuid.New()
	filename := fmt.Sprintf("narrate_%x.%s", u[:4], result.Ext)

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(result.Audio)
}

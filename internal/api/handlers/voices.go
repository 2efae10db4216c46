package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/narrateapp/narrate/internal/voices"
)

type VoicesHandler struct {
	registry *voices.Registry
}

func NewVoicesHandler(registry *voices.Registry) *VoicesHandler {
	return &VoicesHandler{registry: registry}
}

type voiceResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Transcript string `json:"transcript"`
	Filename   string `json:"filename"`
}

// Upload registers a reference voice from a multipart form with fields
// file, name and an optional transcript.
func (h *VoicesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "file required"})
		return
	}
	defer file.Close()

	// Read one byte past the ceiling so the registry can tell "at the limit"
	// from "over it".
	audio, err := io.ReadAll(io.LimitReader(file, voices.MaxUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "failed to read upload"})
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	entry, err := h.registry.Upload(r.Context(), voices.UploadRequest{
		Audio:            audio,
		ContentType:      header.Header.Get("Content-Type"),
		OriginalFilename: header.Filename,
		Name:             name,
		Transcript:       r.FormValue("transcript"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"voice_id":   entry.ID,
		"name":       entry.Name,
		"filename":   entry.Filename,
		"transcript": entry.Transcript,
	})
}

func (h *VoicesHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.registry.List()
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]voiceResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, voiceResponse{
			ID:         e.ID,
			Name:       e.Name,
			Transcript: e.Transcript,
			Filename:   e.Filename,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"voices": out})
}

// Delete removes a voice's audio file and metadata together.
func (h *VoicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "voice_id")

	if err := h.registry.Delete(id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "voice_id": id})
}

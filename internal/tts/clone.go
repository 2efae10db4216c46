package tts

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/narrateapp/narrate/internal/httperr"
	"github.com/narrateapp/narrate/internal/voices"
)

// Clone synthesizes speech in an uploaded reference voice. It talks to the
// same MLX-Audio server as the plain local provider, distinguished only by the
// ref_audio/ref_text fields in the payload.
type Clone struct {
	cfg        MLXConfig
	registry   *voices.Registry
	httpClient *http.Client
}

// NewClone creates a cloning synthesizer backed by the registry. The timeout
// is far longer than for other providers because the first request after a
// restart loads the model.
func NewClone(cfg MLXConfig, registry *voices.Registry) *Clone {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:8000"
	}
	return &Clone{
		cfg:      cfg,
		registry: registry,
		httpClient: &http.Client{
			Timeout: 300 * time.Second,
		},
	}
}

func (c *Clone) Name() string { return "Voice Cloning" }

// Synthesize resolves the voice id to a registry entry and conditions the
// model on its stored sample and transcript. The transcript was validated at
// upload time; the backing file is re-checked here since it can disappear
// between upload and use.
func (c *Clone) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if req.Voice == "" {
		return nil, httperr.BadRequest("voice cloning requires the voice_id of an uploaded voice")
	}

	entry, err := c.registry.Get(req.Voice)
	if err != nil {
		return nil, err
	}
	if entry.Transcript == "" {
		return nil, httperr.BadRequest("voice %q has no transcript; upload it again with one", entry.Name)
	}

	refPath, err := c.registry.FilePath(entry)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(refPath); err != nil {
		return nil, httperr.BadRequest("audio file for voice %q is missing; upload it again", entry.Name)
	}

	body := map[string]any{
		"model":     req.Model,
		"input":     req.Text,
		"ref_audio": refPath,
		"ref_text":  entry.Transcript,
	}

	audio, err := postJSON(ctx, c.httpClient, c.cfg.BaseURL+"/v1/audio/speech", nil, body, c.Name())
	if err != nil {
		return nil, err
	}

	return &Result{Audio: audio, ContentType: "audio/mpeg", Ext: "mp3"}, nil
}

package tts

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const elevenLabsDefaultVoice = "21m00Tcm4TlvDq8ikWAM" // Rachel

// ElevenLabsConfig holds configuration for the ElevenLabs backend.
type ElevenLabsConfig struct {
	BaseURL string // default: "https://api.elevenlabs.io/v1"
}

// ElevenLabs synthesizes speech using the ElevenLabs API. The caller's API key
// travels in the request, not in the synthesizer.
type ElevenLabs struct {
	cfg        ElevenLabsConfig
	httpClient *http.Client
}

// NewElevenLabs creates an ElevenLabs synthesizer with defaults applied.
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	return &ElevenLabs{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (e *ElevenLabs) Name() string { return "ElevenLabs" }

// Synthesize posts to the per-voice route and returns MP3 bytes.
func (e *ElevenLabs) Synthesize(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" {
		voice = elevenLabsDefaultVoice
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.cfg.BaseURL, voice)
	headers := map[string]string{"xi-api-key": req.APIKey}
	body := map[string]any{
		"text":     req.Text,
		"model_id": req.Model,
	}

	audio, err := postJSON(ctx, e.httpClient, url, headers, body, e.Name())
	if err != nil {
		return nil, err
	}

	return &Result{Audio: audio, ContentType: "audio/mpeg", Ext: "mp3"}, nil
}

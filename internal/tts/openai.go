package tts

import (
	"context"
	"net/http"
	"time"
)

const openAIDefaultVoice = "alloy"

// OpenAIConfig holds configuration for the OpenAI TTS backend.
type OpenAIConfig struct {
	BaseURL string // default: "https://api.openai.com/v1"
}

// OpenAI synthesizes speech using OpenAI's TTS API.
type OpenAI struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAI creates an OpenAI synthesizer with defaults applied.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	return &OpenAI{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (o *OpenAI) Name() string { return "OpenAI" }

// Synthesize converts text to audio and returns WAV bytes. WAV is requested
// explicitly; the declared content type must match what the provider actually
// produced or strict players refuse the stream.
func (o *OpenAI) Synthesize(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" {
		voice = openAIDefaultVoice
	}

	headers := map[string]string{"Authorization": "Bearer " + req.APIKey}
	body := map[string]any{
		"model":           req.Model,
		"input":           req.Text,
		"voice":           voice,
		"response_format": "wav",
	}

	audio, err := postJSON(ctx, o.httpClient, o.cfg.BaseURL+"/audio/speech", headers, body, o.Name())
	if err != nil {
		return nil, err
	}

	return &Result{Audio: audio, ContentType: "audio/wav", Ext: "wav"}, nil
}

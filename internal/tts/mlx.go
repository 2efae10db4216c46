package tts

import (
	"context"
	"net/http"
	"time"
)

const mlxDefaultVoice = "af_heart"

// MLXConfig holds configuration for the local MLX-Audio inference server.
type MLXConfig struct {
	BaseURL string // default: "http://127.0.0.1:8000"
}

// MLX synthesizes speech on a local MLX-Audio server, which speaks an
// OpenAI-compatible /v1/audio/speech route.
type MLX struct {
	cfg        MLXConfig
	httpClient *http.Client
}

// NewMLX creates an MLX synthesizer with defaults applied.
func NewMLX(cfg MLXConfig) *MLX {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://127.0.0.1:8000"
	}
	return &MLX{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (m *MLX) Name() string { return "MLX-Audio" }

// Synthesize converts text to audio on the local server and returns MP3 bytes.
func (m *MLX) Synthesize(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" {
		voice = mlxDefaultVoice
	}

	body := map[string]any{
		"model": req.Model,
		"input": req.Text,
		"voice": voice,
	}

	audio, err := postJSON(ctx, m.httpClient, m.cfg.BaseURL+"/v1/audio/speech", nil, body, m.Name())
	if err != nil {
		return nil, err
	}

	return &Result{Audio: audio, ContentType: "audio/mpeg", Ext: "mp3"}, nil
}

// CheckConnectivity probes the server's model-listing route with a short
// deadline. It reports a status value instead of an error so the health
// endpoint can surface "disconnected" without failing the request.
func (m *MLX) CheckConnectivity(ctx context.Context) string {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, m.cfg.BaseURL+"/v1/models", nil)
	if err != nil {
		return "error"
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "disconnected"
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "error"
	}
	return "connected"
}

package tts

import (
	"context"
	"strings"

	"github.com/narrateapp/narrate/internal/catalog"
	"github.com/narrateapp/narrate/internal/config"
	"github.com/narrateapp/narrate/internal/httperr"
	"github.com/narrateapp/narrate/internal/voices"
)

// Dispatcher validates a synthesis request and routes it to the matching
// provider variant. Adding a provider means adding a Synthesizer and one map
// entry here.
type Dispatcher struct {
	catalog *catalog.Catalog
	keys    config.KeysConfig
	synths  map[string]Synthesizer
	local   *MLX
}

// NewDispatcher wires up the four provider variants. The plain local provider
// and the cloning provider share the MLX-Audio base URL.
func NewDispatcher(cfg *config.Config, cat *catalog.Catalog, registry *voices.Registry) *Dispatcher {
	mlxCfg := MLXConfig{BaseURL: cfg.MLX.BaseURL}
	mlx := NewMLX(mlxCfg)

	return &Dispatcher{
		catalog: cat,
		keys:    cfg.Keys,
		local:   mlx,
		synths: map[string]Synthesizer{
			catalog.MLXAudio:      mlx,
			catalog.CloneProvider: NewClone(mlxCfg, registry),
			catalog.ElevenLabs:    NewElevenLabs(ElevenLabsConfig{}),
			catalog.OpenAI:        NewOpenAI(OpenAIConfig{}),
		},
	}
}

// Synthesize runs the validation ladder, resolves the credential and invokes
// the provider. Validation failures never reach the network.
func (d *Dispatcher) Synthesize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, httperr.BadRequest("text cannot be empty")
	}

	desc, ok := d.catalog.Get(req.Provider)
	if !ok {
		return nil, httperr.BadRequest("unknown provider: %s", req.Provider)
	}

	if desc.RequiresAPIKey {
		if req.APIKey == "" {
			req.APIKey = d.fallbackKey(req.Provider)
		}
		if req.APIKey == "" {
			return nil, httperr.BadRequest("%s API key required", desc.Name)
		}
	}

	return d.synths[req.Provider].Synthesize(ctx, req)
}

// HealthStatus reports per-provider connectivity: the local server is probed,
// cloud providers only report whether a fallback key is configured. This is
// the one place a downstream failure becomes a status value instead of an
// error.
func (d *Dispatcher) HealthStatus(ctx context.Context) map[string]string {
	status := map[string]string{
		"elevenlabs": keyStatus(d.keys.ElevenLabs),
		"openai":     keyStatus(d.keys.OpenAI),
	}
	status["mlx_audio"] = d.local.CheckConnectivity(ctx)
	return status
}

func (d *Dispatcher) fallbackKey(provider string) string {
	switch provider {
	case catalog.ElevenLabs:
		return d.keys.ElevenLabs
	case catalog.OpenAI:
		return d.keys.OpenAI
	}
	return ""
}

func keyStatus(key string) string {
	if key == "" {
		return "no_api_key"
	}
	return "configured"
}

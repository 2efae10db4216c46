package tts_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narrateapp/narrate/internal/catalog"
	"github.com/narrateapp/narrate/internal/config"
	"github.com/narrateapp/narrate/internal/httperr"
	"github.com/narrateapp/narrate/internal/tts"
	"github.com/narrateapp/narrate/internal/voices"
)

// testEnv wires a dispatcher against a stubbed MLX-Audio server and a real
// registry in a temp dir.
type testEnv struct {
	dispatcher *tts.Dispatcher
	registry   *voices.Registry
	dir        string
	calls      *atomic.Int64
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	registry, err := voices.NewRegistry(dir, nil)
	require.NoError(t, err)

	cfg := &config.Config{MLX: config.MLXConfig{BaseURL: server.URL}}
	cat := catalog.New(registry)

	return &testEnv{
		dispatcher: tts.NewDispatcher(cfg, cat, registry),
		registry:   registry,
		dir:        dir,
		calls:      &calls,
	}
}

func TestEmptyTextRejectedBeforeDispatch(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, text := range []string{"", "   \n\t  "} {
		_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
			Text:     text,
			Provider: catalog.MLXAudio,
		})
		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
		assert.Contains(t, err.Error(), "empty")
	}
	assert.Zero(t, env.calls.Load(), "no downstream call may be attempted")
}

func TestUnknownProviderRejected(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: "unknown-provider",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "unknown provider")
	assert.Zero(t, env.calls.Load())
}

func TestCloudProvidersRequireAPIKey(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, provider := range []string{catalog.ElevenLabs, catalog.OpenAI} {
		_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
			Text:     "Hello world",
			Provider: provider,
			Model:    "some-model",
		})
		require.Error(t, err, provider)
		assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
		assert.Contains(t, err.Error(), "API key required")
	}
	assert.Zero(t, env.calls.Load(), "no network call without a credential")
}

func TestConfiguredKeyFallback(t *testing.T) {
	// With a process-wide key configured, the request passes validation and
	// reaches the (stubbed) provider call, which here fails on connectivity
	// since the real ElevenLabs endpoint is not reachable in tests. The point
	// is that the failure is no longer "API key required".
	registry, err := voices.NewRegistry(t.TempDir(), nil)
	require.NoError(t, err)
	cfg := &config.Config{
		MLX:  config.MLXConfig{BaseURL: "http://127.0.0.1:1"},
		Keys: config.KeysConfig{ElevenLabs: "fallback-key"},
	}
	d := tts.NewDispatcher(cfg, catalog.New(registry), registry)

	_, err = d.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.ElevenLabs,
		Model:    "eleven_flash_v2_5",
	})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "API key required")
}

func TestMLXSynthesisSuccess(t *testing.T) {
	var gotPayload map[string]any
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("audio"))
	})

	result, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.MLXAudio,
		Model:    "mlx-community/Spark-TTS-0.5B-bf16",
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("audio"), result.Audio)
	assert.Equal(t, "audio/mpeg", result.ContentType)
	assert.Equal(t, "mp3", result.Ext)

	assert.Equal(t, "mlx-community/Spark-TTS-0.5B-bf16", gotPayload["model"])
	assert.Equal(t, "Hello world", gotPayload["input"])
	assert.Equal(t, "af_heart", gotPayload["voice"], "default speaker applies when voice is unset")
}

func TestMLXServerErrorPropagated(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model exploded"))
	})

	_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.MLXAudio,
		Model:    "m",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "MLX-Audio error")
	assert.Contains(t, err.Error(), "model exploded")
}

func TestMLXUnreachable(t *testing.T) {
	registry, err := voices.NewRegistry(t.TempDir(), nil)
	require.NoError(t, err)
	cfg := &config.Config{MLX: config.MLXConfig{BaseURL: "http://127.0.0.1:1"}}
	d := tts.NewDispatcher(cfg, catalog.New(registry), registry)

	_, err = d.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.MLXAudio,
		Model:    "m",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "cannot connect")
}

func TestCloneRequiresVoiceSelector(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.CloneProvider,
		Model:    "mlx-community/csm-1b",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "voice_id")
	assert.Zero(t, env.calls.Load())
}

func TestCloneUnknownVoice(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.CloneProvider,
		Model:    "mlx-community/csm-1b",
		Voice:    "no-such-voice",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, httperr.StatusOf(err))
	assert.Zero(t, env.calls.Load())
}

func TestCloneVoiceWithoutTranscript(t *testing.T) {
	env := newTestEnv(t, nil)

	// Entries predating transcript enforcement can lack one; craft such a
	// record directly in the metadata file.
	metadata := `{"legacy-id": {"name": "Old", "transcript": "", "filename": "legacy-id.wav", "original_filename": "old.wav"}}`
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "voices.json"), []byte(metadata), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "legacy-id.wav"), []byte("x"), 0o644))

	_, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.CloneProvider,
		Model:    "mlx-community/csm-1b",
		Voice:    "legacy-id",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "transcript")
	assert.Zero(t, env.calls.Load())
}

func TestCloneSynthesisSendsReference(t *testing.T) {
	var gotPayload map[string]any
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("cloned-audio"))
	})

	entry, err := env.registry.Upload(context.Background(), voices.UploadRequest{
		Audio:            []byte("reference"),
		ContentType:      "audio/wav",
		OriginalFilename: "ref.wav",
		Name:             "Me",
		Transcript:       "This is my reference recording.",
	})
	require.NoError(t, err)

	result, err := env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.CloneProvider,
		Model:    "mlx-community/csm-1b",
		Voice:    entry.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("cloned-audio"), result.Audio)
	assert.Equal(t, "audio/mpeg", result.ContentType)

	assert.Equal(t, "This is my reference recording.", gotPayload["ref_text"])
	assert.Contains(t, gotPayload["ref_audio"], entry.Filename, "reference path must point at the stored sample")
}

func TestCloneMissingBackingFile(t *testing.T) {
	env := newTestEnv(t, nil)

	entry, err := env.registry.Upload(context.Background(), voices.UploadRequest{
		Audio:       []byte("reference"),
		ContentType: "audio/wav",
		Name:        "Me",
		Transcript:  "t",
	})
	require.NoError(t, err)

	// Simulate the file vanishing between upload and use.
	path, err := env.registry.FilePath(entry)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	_, err = env.dispatcher.Synthesize(context.Background(), tts.Request{
		Text:     "Hello world",
		Provider: catalog.CloneProvider,
		Model:    "mlx-community/csm-1b",
		Voice:    entry.ID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperr.StatusOf(err))
	assert.Contains(t, err.Error(), "missing")
	assert.Zero(t, env.calls.Load())
}

func TestElevenLabsRequestShape(t *testing.T) {
	var gotPayload map[string]any
	var gotKey, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("xi-api-key")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	e := tts.NewElevenLabs(tts.ElevenLabsConfig{BaseURL: server.URL})
	result, err := e.Synthesize(context.Background(), tts.Request{
		Text:   "Hello world",
		Model:  "eleven_flash_v2_5",
		APIKey: "test-api-key",
	})
	require.NoError(t, err)

	assert.Equal(t, "mp3-bytes", string(result.Audio))
	assert.Equal(t, "audio/mpeg", result.ContentType)
	assert.Equal(t, "test-api-key", gotKey)
	assert.Equal(t, "/text-to-speech/21m00Tcm4TlvDq8ikWAM", gotPath, "default voice applies")
	assert.Equal(t, "Hello world", gotPayload["text"])
	assert.Equal(t, "eleven_flash_v2_5", gotPayload["model_id"])
}

func TestOpenAIRequestShape(t *testing.T) {
	var gotPayload map[string]any
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte("wav-bytes"))
	}))
	defer server.Close()

	o := tts.NewOpenAI(tts.OpenAIConfig{BaseURL: server.URL})
	result, err := o.Synthesize(context.Background(), tts.Request{
		Text:   "Hello world",
		Model:  "tts-1",
		Voice:  "nova",
		APIKey: "test-api-key",
	})
	require.NoError(t, err)

	assert.Equal(t, "wav-bytes", string(result.Audio))
	assert.Equal(t, "audio/wav", result.ContentType)
	assert.Equal(t, "wav", result.Ext)
	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "tts-1", gotPayload["model"])
	assert.Equal(t, "nova", gotPayload["voice"])
	assert.Equal(t, "wav", gotPayload["response_format"])
}

func TestHealthStatus(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	status := env.dispatcher.HealthStatus(context.Background())
	assert.Equal(t, "connected", status["mlx_audio"])
	assert.Equal(t, "no_api_key", status["elevenlabs"])
	assert.Equal(t, "no_api_key", status["openai"])
}

func TestHealthStatusDisconnected(t *testing.T) {
	registry, err := voices.NewRegistry(t.TempDir(), nil)
	require.NoError(t, err)
	cfg := &config.Config{
		MLX:  config.MLXConfig{BaseURL: "http://127.0.0.1:1"},
		Keys: config.KeysConfig{OpenAI: "sk-test"},
	}
	d := tts.NewDispatcher(cfg, catalog.New(registry), registry)

	status := d.HealthStatus(context.Background())
	assert.Equal(t, "disconnected", status["mlx_audio"])
	assert.Equal(t, "configured", status["openai"])
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	MLX        MLXConfig
	Keys       KeysConfig
	Voices     VoicesConfig
	Transcribe TranscribeConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type MLXConfig struct {
	BaseURL string // default: "http://127.0.0.1:8000"
}

// KeysConfig holds fallback cloud API keys, used only when a request does not
// carry its own key.
type KeysConfig struct {
	ElevenLabs string
	OpenAI     string
}

type VoicesConfig struct {
	Dir string // directory for uploaded reference audio + voices.json
}

type TranscribeConfig struct {
	Backend       string // "openai", "local", or "" (transcription unavailable)
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	LocalBaseURL  string // default: "http://localhost:8178"
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 3000)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		MLX: MLXConfig{
			BaseURL: getEnv("MLX_AUDIO_URL", "http://127.0.0.1:8000"),
		},
		Keys: KeysConfig{
			ElevenLabs: getEnv("ELEVENLABS_API_KEY", ""),
			OpenAI:     getEnv("OPENAI_API_KEY", ""),
		},
		Voices: VoicesConfig{
			Dir: getEnv("VOICES_DIR", "voices"),
		},
		Transcribe: TranscribeConfig{
			Backend:       getEnv("TRANSCRIBE_BACKEND", ""),
			OpenAIKey:     getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL: getEnv("TRANSCRIBE_OPENAI_BASE_URL", ""),
			OpenAIModel:   getEnv("TRANSCRIBE_OPENAI_MODEL", ""),
			LocalBaseURL:  getEnv("TRANSCRIBE_LOCAL_BASE_URL", "http://localhost:8178"),
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

package transcribe

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds configuration for the OpenAI Whisper backend.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // default: the OpenAI API
	Model   string // default: "whisper-1"
}

// OpenAITranscriber transcribes audio using OpenAI's Whisper API (or a
// compatible endpoint).
type OpenAITranscriber struct {
	client *openai.Client
	model  string
}

// NewOpenAITranscriber creates an OpenAITranscriber with defaults applied.
func NewOpenAITranscriber(cfg OpenAIConfig) *OpenAITranscriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

func (o *OpenAITranscriber) Name() string { return "openai-whisper" }

// Transcribe uploads the audio file and returns the recognized text. The first
// call against a cold local server can be slow while the model loads, so the
// request deadline is left to the caller's context.
func (o *OpenAITranscriber) Transcribe(ctx context.Context, filePath string) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    o.model,
		FilePath: filePath,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}

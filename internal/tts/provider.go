// Package tts turns a normalized synthesis request into a provider-specific
// downstream call and hands back raw audio. Each provider is one Synthesizer
// variant; the Dispatcher owns validation, credential fallback and routing.
package tts

import "context"

// Request is a normalized synthesis request. Voice carries either a direct
// speaker id (cloud providers, local default voices) or a voice registry id
// (clone provider).
type Request struct {
	Text     string
	Provider string
	Model    string
	Voice    string
	APIKey   string
}

// Result holds the synthesized audio and how to present it. Ext is the
// download filename extension matching ContentType.
type Result struct {
	Audio       []byte
	ContentType string
	Ext         string
}

// Synthesizer is the interface for text-to-speech backends.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// Package transcribe turns an audio file into text. Transcription is an
// optional capability: deployments without a configured backend run with a nil
// Transcriber and require explicit transcripts on upload.
package transcribe

import "context"

// Transcriber is the interface for speech-to-text backends.
type Transcriber interface {
	Transcribe(ctx context.Context, filePath string) (string, error)
	Name() string
}

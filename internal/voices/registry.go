// Package voices persists uploaded reference voice samples and their
// metadata. Each sample is a file on disk named {voice_id}.{ext}; metadata for
// all samples lives in a single voices.json next to them.
package voices

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/narrateapp/narrate/internal/httperr"
	"github.com/narrateapp/narrate/internal/transcribe"
)

// MaxUploadBytes is the ceiling for a single reference sample upload.
const MaxUploadBytes = 25 << 20 // 25 MiB

const metadataFile = "voices.json"

// Entry is one registered reference voice.
type Entry struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Transcript       string `json:"transcript"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
}

// storedEntry is the on-disk metadata record; the voice id is the map key.
type storedEntry struct {
	Name             string `json:"name"`
	Transcript       string `json:"transcript"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
}

// Registry owns the voice sample directory. All mutations hold the mutex and
// rewrite the metadata file in full, so concurrent uploads and deletes cannot
// lose each other's updates.
type Registry struct {
	mu          sync.Mutex
	dir         string
	transcriber transcribe.Transcriber // nil when transcription is unavailable
}

// NewRegistry creates a registry rooted at dir. transcriber may be nil, in
// which case uploads must carry an explicit transcript.
func NewRegistry(dir string, transcriber transcribe.Transcriber) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create voices dir: %w", err)
	}
	return &Registry{dir: dir, transcriber: transcriber}, nil
}

// UploadRequest holds the parameters for registering a reference voice.
type UploadRequest struct {
	Audio            []byte
	ContentType      string
	OriginalFilename string
	Name             string
	Transcript       string // empty means derive via transcription
}

// Upload validates and persists a reference sample, deriving a transcript when
// none was supplied. The audio file is written before the metadata record; if
// transcript resolution fails the file is removed again so no orphan remains.
func (r *Registry) Upload(ctx context.Context, req UploadRequest) (*Entry, error) {
	if !strings.HasPrefix(req.ContentType, "audio/") {
		return nil, httperr.BadRequest("file must be an audio upload, got %q", req.ContentType)
	}
	if len(req.Audio) > MaxUploadBytes {
		return nil, httperr.PayloadTooLarge("audio file exceeds the %d MB limit", MaxUploadBytes>>20)
	}

	id := uuid.New().String()
	filename := id + "." + extensionFor(req.ContentType, req.OriginalFilename)
	path := filepath.Join(r.dir, filename)
	if err := os.WriteFile(path, req.Audio, 0o644); err != nil {
		return nil, fmt.Errorf("write audio file: %w", err)
	}

	transcript := strings.TrimSpace(req.Transcript)
	if transcript == "" {
		if r.transcriber == nil {
			os.Remove(path)
			return nil, httperr.BadRequest("no transcript provided and transcription is not configured; supply a transcript or set TRANSCRIBE_BACKEND")
		}
		text, err := r.transcriber.Transcribe(ctx, path)
		if err != nil {
			os.Remove(path)
			return nil, fmt.Errorf("transcribe sample: %w", err)
		}
		transcript = strings.TrimSpace(text)
		if transcript == "" {
			os.Remove(path)
			return nil, httperr.BadRequest("transcription produced no text; supply a transcript")
		}
	}

	entry := Entry{
		ID:               id,
		Name:             req.Name,
		Transcript:       transcript,
		Filename:         filename,
		OriginalFilename: req.OriginalFilename,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	store[id] = storedEntry{
		Name:             entry.Name,
		Transcript:       entry.Transcript,
		Filename:         entry.Filename,
		OriginalFilename: entry.OriginalFilename,
	}
	if err := r.save(store); err != nil {
		os.Remove(path)
		return nil, err
	}

	return &entry, nil
}

// List returns all registered voices, sorted by display name for stable
// front-end rendering.
func (r *Registry) List() ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(store))
	for id, s := range store {
		entries = append(entries, Entry{
			ID:               id,
			Name:             s.Name,
			Transcript:       s.Transcript,
			Filename:         s.Filename,
			OriginalFilename: s.OriginalFilename,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

// Get looks up a single voice by id.
func (r *Registry) Get(id string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return nil, err
	}
	s, ok := store[id]
	if !ok {
		return nil, httperr.NotFound("voice %s not found", id)
	}
	return &Entry{
		ID:               id,
		Name:             s.Name,
		Transcript:       s.Transcript,
		Filename:         s.Filename,
		OriginalFilename: s.OriginalFilename,
	}, nil
}

// Delete removes a voice's audio file and metadata record. A missing audio
// file is tolerated; a missing metadata record is not.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, err := r.load()
	if err != nil {
		return err
	}
	s, ok := store[id]
	if !ok {
		return httperr.NotFound("voice %s not found", id)
	}

	if s.Filename != "" {
		if err := os.Remove(filepath.Join(r.dir, s.Filename)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove audio file: %w", err)
		}
	}

	delete(store, id)
	return r.save(store)
}

// Labels returns id -> display name for every registered voice, used to fill
// the clone provider's voice map at catalog read time.
func (r *Registry) Labels() map[string]string {
	entries, err := r.List()
	if err != nil {
		return map[string]string{}
	}
	labels := make(map[string]string, len(entries))
	for _, e := range entries {
		labels[e.ID] = e.Name
	}
	return labels
}

// FilePath returns the absolute path of an entry's stored audio file.
func (r *Registry) FilePath(e *Entry) (string, error) {
	return filepath.Abs(filepath.Join(r.dir, e.Filename))
}

func (r *Registry) load() (map[string]storedEntry, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, metadataFile))
	if os.IsNotExist(err) {
		return map[string]storedEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read voice metadata: %w", err)
	}

	store := map[string]storedEntry{}
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("parse voice metadata: %w", err)
	}
	return store, nil
}

func (r *Registry) save(store map[string]storedEntry) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("encode voice metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, metadataFile), data, 0o644); err != nil {
		return fmt.Errorf("write voice metadata: %w", err)
	}
	return nil
}

// extensionFor derives the stored file extension: well-known MIME types first,
// then the declared filename's extension, then wav.
func extensionFor(contentType, originalFilename string) string {
	switch contentType {
	case "audio/mpeg":
		return "mp3"
	case "audio/mp4":
		return "m4a"
	}
	if ext := strings.TrimPrefix(filepath.Ext(originalFilename), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return "wav"
}

// Package catalog describes the available TTS providers, their models and
// voices. The static tables are read-only; the clone provider's voice map is
// filled in from the voice registry on every read so it always reflects the
// current uploads.
package catalog

// Descriptor describes one provider for the front-end.
type Descriptor struct {
	Name                string            `json:"name"`
	Description         string            `json:"description"`
	RequiresAPIKey      bool              `json:"requires_api_key"`
	RequiresVoiceUpload bool              `json:"requires_voice_upload"`
	Models              map[string]string `json:"models"`
	Voices              map[string]string `json:"voices"`
}

// Provider ids. CloneProvider is the one whose voices come from uploads.
const (
	MLXAudio      = "mlx-audio"
	CloneProvider = "csm"
	ElevenLabs    = "elevenlabs"
	OpenAI        = "openai"
)

// DefaultProvider and DefaultModel are applied when a synthesis request omits
// the fields.
const (
	DefaultProvider = MLXAudio
	DefaultModel    = "mlx-community/Spark-TTS-0.5B-bf16"
)

var static = map[string]Descriptor{
	MLXAudio: {
		Name:        "MLX-Audio (Local)",
		Description: "Local TTS on Apple Silicon",
		Models: map[string]string{
			"mlx-community/Spark-TTS-0.5B-bf16": "Spark TTS 0.5B (Best quality, EN/ZH)",
			"mlx-community/Spark-TTS-0.5B-8bit": "Spark TTS 0.5B 8-bit (Faster, less memory)",
		},
		Voices: map[string]string{}, // Spark TTS uses default voice
	},
	CloneProvider: {
		Name:                "Voice Cloning (Local)",
		Description:         "Clone a voice from an uploaded sample",
		RequiresVoiceUpload: true,
		Models: map[string]string{
			"mlx-community/csm-1b": "CSM 1B (Conversational speech)",
		},
		// Voices filled from the registry at read time.
	},
	ElevenLabs: {
		Name:           "ElevenLabs",
		Description:    "Cloud TTS with natural voices",
		RequiresAPIKey: true,
		Models: map[string]string{
			"eleven_flash_v2_5":      "Flash v2.5 (Low latency)",
			"eleven_multilingual_v2": "Multilingual v2 (Best quality)",
			"eleven_turbo_v2_5":      "Turbo v2.5 (Balanced)",
		},
		Voices: map[string]string{
			"21m00Tcm4TlvDq8ikWAM": "Rachel",
			"EXAVITQu4vr4xnSDxMaL": "Bella",
			"ErXwobaYiN019PkySvjV": "Antoni",
			"VR6AewLTigWG4xSOukaG": "Arnold",
			"pNInz6obpgDQGcFmaJgB": "Adam",
		},
	},
	OpenAI: {
		Name:           "OpenAI",
		Description:    "Cloud TTS with GPT-4o voices",
		RequiresAPIKey: true,
		Models: map[string]string{
			"gpt-4o-mini-tts": "GPT-4o Mini TTS (Best)",
			"tts-1":           "TTS-1 (Fast)",
			"tts-1-hd":        "TTS-1 HD (High quality)",
		},
		Voices: map[string]string{
			"alloy":   "Alloy",
			"ash":     "Ash",
			"ballad":  "Ballad",
			"coral":   "Coral",
			"echo":    "Echo",
			"fable":   "Fable",
			"nova":    "Nova",
			"onyx":    "Onyx",
			"sage":    "Sage",
			"shimmer": "Shimmer",
		},
	},
}

// VoiceLister supplies the clone provider's dynamic voice map.
type VoiceLister interface {
	Labels() map[string]string
}

// Catalog serves provider descriptors with live clone voices.
type Catalog struct {
	voices VoiceLister
}

func New(voices VoiceLister) *Catalog {
	return &Catalog{voices: voices}
}

// List returns a fresh snapshot of all provider descriptors. The clone
// provider's voices are resolved per call; the static table itself is never
// written.
func (c *Catalog) List() map[string]Descriptor {
	out := make(map[string]Descriptor, len(static))
	for id, d := range static {
		if id == CloneProvider {
			d.Voices = c.voices.Labels()
		}
		out[id] = d
	}
	return out
}

// Get returns one provider's descriptor.
func (c *Catalog) Get(id string) (Descriptor, bool) {
	d, ok := static[id]
	if !ok {
		return Descriptor{}, false
	}
	if id == CloneProvider {
		d.Voices = c.voices.Labels()
	}
	return d, true
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/narrateapp/narrate/internal/api/handlers"
	"github.com/narrateapp/narrate/internal/api/middleware"
	"github.com/narrateapp/narrate/internal/catalog"
	"github.com/narrateapp/narrate/internal/config"
	"github.com/narrateapp/narrate/internal/transcribe"
	"github.com/narrateapp/narrate/internal/tts"
	"github.com/narrateapp/narrate/internal/voices"
)

type Router struct {
	mux        *chi.Mux
	cfg        *config.Config
	registry   *voices.Registry
	catalog    *catalog.Catalog
	dispatcher *tts.Dispatcher
}

func NewRouter(cfg *config.Config) (*Router, error) {
	registry, err := voices.NewRegistry(cfg.Voices.Dir, newTranscriber(cfg.Transcribe))
	if err != nil {
		return nil, err
	}

	cat := catalog.New(registry)

	return &Router{
		mux:        chi.NewRouter(),
		cfg:        cfg,
		registry:   registry,
		catalog:    cat,
		dispatcher: tts.NewDispatcher(cfg, cat, registry),
	}, nil
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	providersH := handlers.NewProvidersHandler(rt.catalog)
	healthH := handlers.NewHealthHandler(rt.dispatcher)
	ttsH := handlers.NewTTSHandler(rt.dispatcher)
	voicesH := handlers.NewVoicesHandler(rt.registry)

	r.Route("/api", func(r chi.Router) {
		r.Get("/providers", providersH.List)
		r.Get("/health", healthH.Health)
		r.Post("/tts", ttsH.Generate)
		r.Post("/upload-voice", voicesH.Upload)
		r.Get("/voices", voicesH.List)
		r.Delete("/voices/{voice_id}", voicesH.Delete)
	})

	return r
}

// newTranscriber picks the speech-to-text backend; nil means the capability is
// absent and uploads must carry an explicit transcript.
func newTranscriber(cfg config.TranscribeConfig) transcribe.Transcriber {
	switch cfg.Backend {
	case "openai":
		return transcribe.NewOpenAITranscriber(transcribe.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	case "local":
		return transcribe.NewLocalTranscriber(transcribe.LocalConfig{
			BaseURL: cfg.LocalBaseURL,
		})
	}
	return nil
}

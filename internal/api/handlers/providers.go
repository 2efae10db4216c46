package handlers

import (
	"net/http"

	"github.com/narrateapp/narrate/internal/catalog"
)

type ProvidersHandler struct {
	catalog *catalog.Catalog
}

func NewProvidersHandler(cat *catalog.Catalog) *ProvidersHandler {
	return &ProvidersHandler{catalog: cat}
}

// List returns all providers with their models and voices. The clone
// provider's voices reflect the registry at the time of the call.
func (h *ProvidersHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"providers": h.catalog.List()})
}

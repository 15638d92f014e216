package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/micro-hygiene/wiki/internal/ui/templates"
	"github.com/micro-hygiene/wiki/internal/version"
)

func (h *HandlerService) AboutPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, templates.AboutPage(), "about page")
}

// NotFoundPage is also the router's NotFound handler
func (h *HandlerService) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, templates.NotFoundPage(), "not found page")
}

// Version returns the build details of the ui server
func (h *HandlerService) Version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(version.Get())
}

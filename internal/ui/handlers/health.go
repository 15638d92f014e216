package handlers

import (
	"context"
	"log/slog"
	"net/http"

	wiki "github.com/micro-hygiene/wiki"
	"github.com/micro-hygiene/wiki/internal/logger"
)

// Liveness reports that the ui server is up
func (h *HandlerService) Liveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readiness checks that the wiki API is answering requests
func (h *HandlerService) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), wiki.ReadinessTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	_, err := h.ApiClient.GetCategories(ctx)
	if err == nil {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		return
	}

	logger.ContextRequestLogger(r.Context()).Warn("Readiness check failed", slog.String("error", err.Error()))
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("Service Unavailable"))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/captcha"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/templates"
)

type HandlerService struct {
	ApiClient   *client.Client
	Captcha     captcha.Widget
	Environment string
}

// render writes the page with the given status. Render failures are logged, the status has already been sent.
func (h *HandlerService) render(w http.ResponseWriter, r *http.Request, status int, component templ.Component, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := component.Render(r.Context(), w); err != nil {
		reqLogger := logger.ContextRequestLogger(r.Context())
		reqLogger.Error("Failed to render "+name, slog.String("error", err.Error()))
	}
}

// renderLoadError is used when the main content of a page could not be fetched from the API.
// A 404 from the API renders the not found page, anything else an error page with fallbackMsg.
func (h *HandlerService) renderLoadError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	status := pageStatus(err)
	if status == http.StatusNotFound {
		reqLogger.Info("Requested item not found", slog.String("error", err.Error()))
		h.NotFoundPage(w, r)
		return
	}

	reqLogger.Error(fallbackMsg, slog.String("error", err.Error()))
	h.render(w, r, status, templates.ErrorPage(status, fallbackMsg), "error page")
}

// pageStatus maps a failed API call to the status of the page rendered in its place.
// Client errors are passed through, everything else means the API could not serve the page.
func pageStatus(err error) int {
	if client.Classify(err) == client.OutcomeHTTPFailure {
		if code := client.StatusCode(err); code >= 400 && code < 500 {
			return code
		}
	}
	return http.StatusBadGateway
}

// apiMessage returns the message sent by the API for a failed call, or "" when no response was received
func apiMessage(err error) string {
	var ce *client.ClientError
	if errors.As(err, &ce) && ce.Kind == client.KindStatus {
		return ce.Message
	}
	return ""
}

package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelDebug},
		{"", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, slog.LevelDebug, "test")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(RequestLogging(log))
	router.Get("/tips/{slugId}", func(w http.ResponseWriter, r *http.Request) {
		ContextWithLogAttrs(r.Context(), slog.Int("tip_id", 42))
		ContextRequestLogger(r.Context()).Debug("fetching tip")
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/tips/42-how-to-clean", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var handlerLine map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &handlerLine))
	assert.Equal(t, "fetching tip", handlerLine["msg"])
	assert.NotEmpty(t, handlerLine["request_id"])

	var requestLine map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &requestLine))
	assert.Equal(t, "request completed", requestLine["msg"])
	assert.Equal(t, "WARN", requestLine["level"])
	assert.Equal(t, float64(http.StatusNotFound), requestLine["status"])
	assert.Equal(t, float64(42), requestLine["tip_id"])
	assert.Equal(t, "tips", requestLine["component"])
}

func TestRequestLoggingSkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, slog.LevelDebug, "test")

	handler := RequestLogging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Zero(t, buf.Len())
}

func TestContextRequestLoggerFallback(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Same(t, slog.Default(), ContextRequestLogger(req.Context()))
}

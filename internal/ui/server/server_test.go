package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	wiki "github.com/micro-hygiene/wiki"
	"github.com/micro-hygiene/wiki/internal/ui/captcha"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer returns a server backed by a fake API that answers every call with an empty list
func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(api.Close)

	return NewServer(cfg, discardLogger(), client.NewClient(api.URL+"/api"), captcha.NewStatic(""))
}

func TestRequestSizeLimits(t *testing.T) {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(RequestSizeLimit(wiki.DefaultMaxFormSize))
		r.Post("/submit", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
	})

	tests := []struct {
		name          string
		bodySize      int64
		contentLength int64 // -1 = unknown
		wantCode      int
	}{
		{"normal form", 2 * 1024, 2 * 1024, http.StatusOK},
		{"oversized form", 128 * 1024, 128 * 1024, http.StatusRequestEntityTooLarge},
		{"oversized form without content length", 128 * 1024, -1, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := "reason=" + strings.Repeat("x", int(tt.bodySize))
			req := httptest.NewRequest(http.MethodPost, "/submit", bytes.NewReader([]byte(body)))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.ContentLength = tt.contentLength

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("got status %d, want %d", rr.Code, tt.wantCode)
			}

			if header := rr.Header().Get("X-Max-Request-Size"); header != "65536" {
				t.Errorf("X-Max-Request-Size header = %q", header)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	router := chi.NewRouter()
	router.Use(RateLimit(10, 5)) // 10 requests per second, burst of 5
	router.Post("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// First few requests should succeed (within burst)
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/test", nil))

		if rr.Code != http.StatusOK {
			t.Errorf("Request %d failed: got status %d, want %d", i+1, rr.Code, http.StatusOK)
		}
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/test", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("Rate limit request should fail: got status %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header not set")
	}
}

func TestRateLimitDisabled(t *testing.T) {
	router := chi.NewRouter()
	router.Use(RateLimit(0, 0))
	router.Post("/test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/test", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d", i+1, rr.Code)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		environment string
		wantHSTS    bool
	}{
		{"dev", false},
		{"staging", true},
		{"prod", true},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Environment = tt.environment
			srv := newTestServer(t, cfg)

			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/about", nil))

			assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

			csp := rr.Header().Get("Content-Security-Policy")
			assert.Contains(t, csp, "default-src 'self'")
			assert.Contains(t, csp, "script-src 'self' "+captcha.TurnstileOrigin)
			assert.Contains(t, csp, "frame-src "+captcha.TurnstileOrigin)

			assert.Equal(t, tt.wantHSTS, rr.Header().Get("Strict-Transport-Security") != "")
		})
	}
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantType   string
	}{
		{http.MethodGet, "/about", http.StatusOK, "text/html"},
		{http.MethodGet, "/categories", http.StatusOK, "text/html"},
		{http.MethodGet, "/products", http.StatusOK, "text/html"},
		{http.MethodGet, "/submit", http.StatusOK, "text/html"},
		{http.MethodGet, "/health/live", http.StatusOK, "text/plain"},
		{http.MethodGet, "/health/ready", http.StatusOK, "text/plain"},
		{http.MethodGet, "/version", http.StatusOK, "application/json"},
		{http.MethodGet, "/static/wiki.css", http.StatusOK, "text/css"},
		{http.MethodGet, "/static/captcha.js", http.StatusOK, "javascript"},
		{http.MethodGet, "/static/missing.css", http.StatusNotFound, ""},
		{http.MethodGet, "/tips/not-a-tip", http.StatusNotFound, "text/html"},
		{http.MethodGet, "/nowhere", http.StatusNotFound, "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			srv.Router().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantType != "" {
				assert.Contains(t, rr.Header().Get("Content-Type"), tt.wantType)
			}
		})
	}
}

func TestCaptchaScriptClearsStaleTokens(t *testing.T) {
	srv := newTestServer(t, config.DefaultConfig())

	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/captcha.js", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	script := rr.Body.String()
	assert.Contains(t, script, `input[name="`+captcha.ResponseField+`"]`)
	assert.Contains(t, script, `input.value = "";`)
	assert.Contains(t, script, "window.turnstile.reset(")

	// both the expiry and the error callback empty the token field
	for _, callback := range []string{"wikiCaptchaExpired", "wikiCaptchaFailed"} {
		start := strings.Index(script, "window."+callback+" = function")
		require.GreaterOrEqual(t, start, 0, callback)
		end := strings.Index(script[start:], "};")
		require.Greater(t, end, 0, callback)
		assert.Contains(t, script[start:start+end], "clearTokens(", callback)
	}
}

func TestFormPostsAreLimited(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxFormSize = 1024
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	srv := newTestServer(t, cfg)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rr := httptest.NewRecorder()
		srv.Router().ServeHTTP(rr, req)
		return rr
	}

	oversized := post(url.Values{"description": {strings.Repeat("x", 2048)}}.Encode())
	assert.Equal(t, http.StatusRequestEntityTooLarge, oversized.Code)

	// the burst was used by the first post
	limited := post(url.Values{"title": {"t"}}.Encode())
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)

	// pages are not rate limited
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/about", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStartAndShutdown(t *testing.T) {
	// reserve a free port
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := config.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = port

	// the fake API is started before the goroutine snapshot, it is closed by t.Cleanup after the check
	srv := newTestServer(t, cfg)

	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Start(ctx)
	}()

	// wait for the server to answer
	httpClient := &http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		res, err := httpClient.Get("http://" + cfg.Addr() + "/health/live")
		if err != nil {
			return false
		}
		_ = res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	httpClient.CloseIdleConnections()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(wiki.ServerShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}

func TestStartFailsWhenPortInUse(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := config.DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = l.Addr().(*net.TCPAddr).Port

	err = newTestServer(t, cfg).Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "server failed to start")
}

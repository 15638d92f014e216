package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	wiki "github.com/micro-hygiene/wiki"
	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/captcha"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/config"
	"github.com/micro-hygiene/wiki/internal/ui/handlers"
)

//go:embed static
var staticFiles embed.FS

type Server struct {
	router         *chi.Mux
	config         *config.Config
	logger         *slog.Logger
	handlerService *handlers.HandlerService
}

// NewServer creates the ui server. The api client and captcha widget are shared by all requests.
func NewServer(cfg *config.Config, logger *slog.Logger, apiClient *client.Client, widget captcha.Widget) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		handlerService: &handlers.HandlerService{
			ApiClient:   apiClient,
			Captcha:     widget,
			Environment: cfg.Environment,
		},
	}

	s.setupMiddleware()
	s.registerRoutes()
	return s
}

// Router returns the http handler serving the ui
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(wiki.RequestTimeout))
	s.router.Use(SecurityHeaders(s.config.Environment))
}

func (s *Server) registerRoutes() {
	h := s.handlerService

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	s.router.Route("/health", func(r chi.Router) {
		// check the ui is up and the wiki API is answering
		r.Get("/ready", h.Readiness)

		// check the ui is up
		r.Get("/live", h.Liveness)
	})
	s.router.Get("/version", h.Version)

	// pages
	s.router.Get("/", h.HomePage)
	s.router.Get("/tips/{slugId}", h.TipPage)
	s.router.Get("/categories", h.CategoriesPage)
	s.router.Get("/categories/{slug}", h.CategoryPage)
	s.router.Get("/products", h.ProductsPage)
	s.router.Get("/submit", h.SubmitPage)
	s.router.Get("/about", h.AboutPage)

	// form posts
	s.router.Group(func(r chi.Router) {
		r.Use(RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
		r.Use(RequestSizeLimit(s.config.MaxFormSize))

		r.Post("/tips/{slugId}/vote", h.VoteTip)
		r.Post("/tips/{slugId}/flag", h.FlagTip)
		r.Post("/submit", h.SubmitTip)
	})

	s.router.NotFound(h.NotFoundPage)
}

// Start runs the server until ctx is cancelled, then shuts it down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := s.config.Addr()

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	// the serving goroutine always reports how ListenAndServe returned, Start waits for it before returning
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("UI server listening",
			slog.String("address", addr),
			slog.String("api_base_url", s.handlerService.ApiClient.BaseURL()),
		)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serverErr <- err
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutting down UI server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), wiki.ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return <-serverErr
}

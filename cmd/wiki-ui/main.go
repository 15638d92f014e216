package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/micro-hygiene/wiki/internal/logger"
	"github.com/micro-hygiene/wiki/internal/ui/captcha"
	"github.com/micro-hygiene/wiki/internal/ui/client"
	"github.com/micro-hygiene/wiki/internal/ui/config"
	"github.com/micro-hygiene/wiki/internal/ui/server"
	"github.com/micro-hygiene/wiki/internal/version"
)

func main() {
	cmd := &cobra.Command{
		Use:   "wiki-ui",
		Short: "Micro-Hygiene Wiki web front end",
		Long:  `Server-rendered web front end for the Micro-Hygiene Wiki API: browse, search, vote on and submit cleaning tips`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
		SilenceUsage: true,
	}

	cmd.Version = version.Get().String()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewConfig()
	if err != nil {
		// the logger is configured from the environment too, report with the default one
		slog.Error("Failed to load UI configuration", slog.String("error", err.Error()))
		return err
	}

	serverLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	serverLogger.Info("Starting UI server",
		slog.String("version", version.Get().Version),
		slog.String("environment", cfg.Environment),
	)
	serverLogger.Info("Using wiki API", slog.String("api_base_url", cfg.APIBaseURL))

	apiClient := client.NewClient(cfg.APIBaseURL,
		client.WithTimeout(cfg.APITimeout),
		client.WithLogger(serverLogger),
	)

	var widget captcha.Widget
	if cfg.TurnstileSiteKey != "" {
		widget = captcha.NewTurnstile(cfg.TurnstileSiteKey)
	} else {
		serverLogger.Warn("TURNSTILE_SITE_KEY is not set, tip submissions use a static captcha token")
		widget = captcha.NewStatic("")
	}

	srv := server.NewServer(cfg, serverLogger, apiClient, widget)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		serverLogger.Error("UI server error", slog.String("error", err.Error()))
		return err
	}

	serverLogger.Info("UI server shutdown complete")
	return nil
}

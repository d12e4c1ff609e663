package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"productdash/internal/api"
	"productdash/internal/api/handlers"
	"productdash/internal/api/middleware"
	"productdash/internal/api/render"
	"productdash/internal/client"
	"productdash/internal/engine/dashboard"
	"productdash/internal/pkg/logger"
	"productdash/internal/platform/config"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env not loaded: %v\n", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("dashboard stopped")
	}
	log.Info().Msg("dashboard exited gracefully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog := client.New(cfg.API)
	dash := dashboard.New(catalog, cfg, catalog.BaseURL())
	defer dash.Close()

	renderer, err := render.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	// Prime the products tab; an unreachable API only shows up as a notice.
	startCtx, cancel := context.WithTimeout(ctx, cfg.API.Timeout)
	dash.Activate(startCtx, dashboard.TabProducts)
	cancel()

	stats := &middleware.Stats{}
	deps := &api.Dependencies{
		DashboardHandler: handlers.NewDashboardHandler(dash, renderer),
		ProductHandler:   handlers.NewProductHandler(dash),
		WebhookHandler:   handlers.NewWebhookHandler(dash),
		ModalHandler:     handlers.NewModalHandler(dash),
		ImportHandler:    handlers.NewImportHandler(dash),
		HealthHandler:    handlers.NewHealthHandler(catalog),
		MetricsHandler:   handlers.NewMetricsHandler(stats, dash),
		Stats:            stats,
		MaxUploadBytes:   cfg.Server.MaxUploadBytes,
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("api", catalog.BaseURL()).Msg("dashboard starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("dashboard shutting down")

		dash.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

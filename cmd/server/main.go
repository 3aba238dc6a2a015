// Command server runs the code-correction API.
//
// @title           Cerberus API
// @version         1.0
// @description     Synchronous gateway that forwards code snippets to an n8n correction webhook.
// @BasePath        /api
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/cerberus-api/internal/config"
	httpapi "github.com/tbourn/cerberus-api/internal/http"
	"github.com/tbourn/cerberus-api/internal/observability"
	"github.com/tbourn/cerberus-api/internal/services"
	"github.com/tbourn/cerberus-api/internal/sysutil"
	"github.com/tbourn/cerberus-api/internal/webhook"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := run(); err != nil {
		log.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sysutil.ConfigureLogger(os.Stderr, cfg.LogPretty, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)
	log.Info().
		Str("port", cfg.Port).
		Str("version", appVersion).
		Str("webhook_url", cfg.Webhook.URL).
		Dur("webhook_timeout", cfg.Webhook.Timeout).
		Str("api_base_path", cfg.APIBasePath).
		Msg("config loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	client := webhook.New(cfg.Webhook)
	svc := services.NewPatchService(client)

	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server")

	// In-flight patch requests may be waiting on the webhook for up to its
	// timeout; WRITE_TIMEOUT is validated to exceed it.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.WriteTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

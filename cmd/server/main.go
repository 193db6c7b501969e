package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"qrlink/internal/api"
	"qrlink/internal/api/handlers"
	"qrlink/internal/api/middleware"
	"qrlink/internal/engine/qrcode"
	"qrlink/internal/engine/session"
	"qrlink/internal/pkg/logger"
	"qrlink/internal/platform/config"
	"qrlink/internal/workers"
)

const defaultConfigPath = "configs/config.yaml"

func configPath() string {
	if p := os.Getenv("QRLINK_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if closer := logger.Init(cfg.Logging); closer != nil {
		defer closer.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Encoder
	encoder, err := qrcode.New(cfg.Encoder.Backend, cfg.Encoder.CacheTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build encoder")
	}

	// Sessions
	store := session.NewStore(func() *session.Controller {
		return session.NewController(encoder, session.WithTimeout(cfg.Encoder.Timeout))
	})
	go workers.RunSessionSweeper(ctx, store, cfg.Session.SweepInterval, cfg.Session.IdleTTL)

	// Middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.GeneratePerMinute)
	go rateLimiter.RunCleanup(ctx, cfg.Session.IdleTTL)

	router := api.NewRouter(&api.Dependencies{
		PageHandler:       handlers.NewPageHandler(),
		HealthHandler:     handlers.NewHealthHandler(encoder, store),
		SessionMiddleware: middleware.NewSessionMiddleware(store, cfg.Session.CookieName),
		RateLimiter:       rateLimiter,
		CookieName:        cfg.Session.CookieName,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", cfg.Encoder.Backend).
			Msg("qr code generator available at http://" + server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
			return
		}
		log.Info().Msg("server stopped")
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("server failed")
	}
}

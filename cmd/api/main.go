package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "travel_planner/internal/adapters/http_server"
	"travel_planner/internal/adapters/identity"
	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/app"
	"travel_planner/internal/shared"
	"travel_planner/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// storage
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	backend, closeStore, err := storage.Open(pingCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("storage init failed")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("storage close failed")
		}
	}()

	// deps
	handlers := &server.Handlers{
		Destinations: app.NewDestinationService(backend),
		Trips:        app.NewTripService(backend),
		Health:       backend,
		Identity: identity.Resolver{
			Secret:      []byte(cfg.JWTSecret),
			DefaultUser: cfg.DefaultUserID,
			Required:    cfg.AuthRequired,
		},
	}

	// http
	srv := server.New(server.Options{Timeout: cfg.RequestTimeout, CORSOrigins: cfg.CORSOrigins})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(handlers)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("view_mode", string(backend.Mode())).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

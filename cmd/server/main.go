package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miramare/arredo/internal/config"
	"github.com/miramare/arredo/internal/db"
	"github.com/miramare/arredo/internal/media"
	"github.com/miramare/arredo/internal/server"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Structured logger — dev: pretty, prod: JSON
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if err := media.NewManager(cfg).EnsureDirs(); err != nil {
		log.Warn().Err(err).Str("root", cfg.UploadRoot).Msg("could not create upload directories")
	}

	// Probe the backend chain once so the active store is visible at startup.
	// Requests re-run the selection themselves.
	if h, err := db.Open(cfg); err != nil {
		log.Warn().Err(err).Msg("no database backend reachable at startup")
	} else {
		log.Info().Str("backend", string(h.Backend)).Msg("database backend selected")
		_ = h.Close()
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(cfg)}
	go func() {
		log.Info().Str("env", cfg.Env).Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
}

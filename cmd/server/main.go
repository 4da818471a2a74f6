package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/shalat/internal/config"
	"github.com/Nixie-Tech-LLC/shalat/internal/graceful"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	ConfigureLogging(cfg)

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	backends, err := InitBackends(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize backends")
	}
	defer backends.Close()

	r := gin.New()
	r.Use(gin.Recovery())
	RegisterRoutes(r, cfg, backends)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}

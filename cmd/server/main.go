package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/freeeve/foundry/internal/auth"
	"github.com/freeeve/foundry/internal/config"
	"github.com/freeeve/foundry/internal/handler"
	"github.com/freeeve/foundry/internal/logger"
	"github.com/freeeve/foundry/internal/metrics"
	"github.com/freeeve/foundry/internal/repository"
	"github.com/freeeve/foundry/internal/repository/postgres"
	redisrepo "github.com/freeeve/foundry/internal/repository/redis"
	"github.com/freeeve/foundry/internal/service"
)

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.LogLevel)
	log.Info().
		Int("workers", cfg.SolverWorkers).
		Int("defaultHorizon", cfg.DefaultHorizon).
		Int("maxHorizon", cfg.MaxHorizon).
		Bool("history", cfg.DatabaseURL != "").
		Bool("cache", cfg.RedisURL != "").
		Msg("Config loaded")

	ctx := context.Background()

	// Run history (optional)
	var runs repository.RunRepository
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		runs = postgres.NewRunRepo(db)
	}

	// Result cache (optional)
	var cache repository.ResultCache
	if cfg.RedisURL != "" {
		redisClient, err := redisrepo.NewClient(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer redisClient.Close()
		cache = redisClient
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.JWTSecret)

	// WebSocket hub
	wsHub := handler.NewHub()

	// Services
	solverSvc := service.NewSolverService(cache, runs, collector, wsHub, cfg.SolverWorkers)
	solverSvc.SetHorizonLimit(cfg.MaxHorizon)

	routes := handler.Routes{
		Solve: handler.NewSolveHandler(solverSvc, cfg.DefaultHorizon),
		WS:    handler.NewWSHandler(wsHub, jwtMgr),
		JWT:   jwtMgr,
	}
	if collector != nil {
		routes.Metrics = collector.Handler()
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler.NewRouter(routes),
		ReadTimeout: 15 * time.Second,
		// large blueprints at long horizons take a while
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}

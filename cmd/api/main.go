package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/opsdesk/approvals/internal/api"
	"github.com/opsdesk/approvals/internal/core/domain"
	"github.com/opsdesk/approvals/internal/core/service"
	"github.com/opsdesk/approvals/internal/infrastructure/config"
	"github.com/opsdesk/approvals/internal/infrastructure/db/postgres"
	"github.com/opsdesk/approvals/internal/infrastructure/db/redis"
	"github.com/opsdesk/approvals/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional .env for local development; real environments set vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	// Redis only backs the rate limiter, which fails open; a missing Redis
	// degrades the service instead of blocking startup.
	var limiter *redis.RateLimiter
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
	} else {
		defer rdb.Close()
		limiter = redis.NewRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	directory := domain.NewDirectory(domain.DefaultUsers())
	requestRepo := postgres.NewRequestRepository(pool)
	requestService := service.NewRequestService(requestRepo, log)
	tokenService := service.NewTokenService(directory, cfg.JWTSecret, cfg.TokenTTL)

	deps := api.Dependencies{
		Requests:       requestService,
		Tokens:         tokenService,
		Directory:      directory,
		Pool:           pool,
		Redis:          rdb,
		AllowedOrigins: cfg.AllowedOrigins(),
		Logger:         log,
	}
	if limiter != nil {
		deps.Limiter = limiter
	}

	e := api.NewRouter(deps)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/uniportal/thesis-portal/internal/api"
	"github.com/uniportal/thesis-portal/internal/api/middleware"
	"github.com/uniportal/thesis-portal/internal/core/ports"
	"github.com/uniportal/thesis-portal/internal/infrastructure/config"
	"github.com/uniportal/thesis-portal/internal/infrastructure/redis"
	"github.com/uniportal/thesis-portal/internal/infrastructure/session"
	"github.com/uniportal/thesis-portal/internal/infrastructure/upstream"
	"github.com/uniportal/thesis-portal/internal/ws"
	"github.com/uniportal/thesis-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx := context.Background()

	var (
		store ports.SessionStore
		rdb   *goredis.Client
	)
	switch cfg.Session.Backend {
	case "redis":
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("connecting to redis failed")
		}
		rdb = client
		store = session.NewRedisStore(rdb, cfg.Session.TTL, cfg.Session.CookieSecure)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session backend: redis")
	default:
		store = session.NewCookieStore(cfg.Session.CookieSecure)
		log.Info().Msg("session backend: cookie")
	}

	thesisAPI := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, log)
	hub := ws.NewHub(log)

	limiter := middleware.NewRateLimiter(cfg.Login.PerMinute, cfg.Login.Burst)
	defer limiter.Stop()

	e := api.NewRouter(api.RouterDeps{
		Store:        store,
		Auth:         thesisAPI,
		Topics:       thesisAPI,
		Reports:      thesisAPI,
		Accounts:     thesisAPI,
		Hub:          hub,
		Redis:        rdb,
		Upstream:     thesisAPI,
		LoginLimiter: limiter,
		Log:          log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("thesis portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	hub.Close()
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("closing redis failed")
		}
	}
}

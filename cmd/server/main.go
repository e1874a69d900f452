package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"bookstore/internal/app"
	"bookstore/internal/config"
	"bookstore/internal/ratelimit"
	"bookstore/internal/server"
	"bookstore/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	accessTTL, err := config.ParseAccessTokenTTL(cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("failed to parse access token TTL: %v", err)
	}
	refreshTTL, err := config.ParseRefreshTTL(cfg.RefreshTTL)
	if err != nil {
		log.Fatalf("failed to parse refresh TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL:   cfg.DatabaseURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		JWTSecret:     cfg.JWTSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	trusted, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RateLimit > 0 {
		window, err := config.ParseRateLimitWindow(cfg.RateLimitWindow)
		if err != nil {
			log.Fatalf("failed to parse rate limit window: %v", err)
		}
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "bookstore:ratelimit", cfg.RateLimit, window)
		if err != nil {
			log.Fatalf("failed to init rate limiter: %v", err)
		}
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		Limiter:        limiter,
		TrustedProxies: trusted,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("bookstore server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

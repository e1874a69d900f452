// Package app implements the bookstore's business rules on top of the
// store and token layers. Expected failures are returned as
// *apierr.Error values; anything else is an internal fault.
package app

import (
	"fmt"
	"strings"
	"time"

	"bookstore/pkg/auth"
	"bookstore/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// Injectable for tests.
	Store         store.Store
	RefreshTokens store.RefreshTokenStore
	Tokens        *auth.TokenIssuer
}

// App wires storage, the refresh-token cache and the token issuer.
type App struct {
	store         store.Store
	refreshTokens store.RefreshTokenStore
	tokens        *auth.TokenIssuer
}

// New constructs the application with database storage and redis-backed
// refresh tokens.
func New(cfg Config) (*App, error) {
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = 30 * time.Minute
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}

	refreshStore := cfg.RefreshTokens
	if refreshStore == nil {
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, fmt.Errorf("redisAddr is required for the refresh token cache")
		}
		refreshStore = store.NewRedisRefreshTokenStore(cfg.RedisAddr, cfg.RedisPassword)
	}

	tokens := cfg.Tokens
	if tokens == nil {
		if strings.TrimSpace(cfg.JWTSecret) == "" {
			return nil, fmt.Errorf("jwtSecret is required")
		}
		tokens = auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	}

	return &App{
		store:         dataStore,
		refreshTokens: refreshStore,
		tokens:        tokens,
	}, nil
}

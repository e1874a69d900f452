// Package config loads the server configuration from YAML with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPath is the default configuration file location.
const ConfigPath = "config.yaml"

// FileConfig represents configuration loaded from YAML.
type FileConfig struct {
	Port            string   `yaml:"port"`
	DatabaseURL     string   `yaml:"databaseURL"`
	RedisAddr       string   `yaml:"redisAddr"`
	RedisPassword   string   `yaml:"redisPassword"`
	JWTSecret       string   `yaml:"jwtSecret"`
	AccessTokenTTL  string   `yaml:"accessTokenTTL"`
	RefreshTTL      string   `yaml:"refreshTTL"`
	LogLevel        string   `yaml:"logLevel"`
	RateLimit       int      `yaml:"rateLimit"`
	RateLimitWindow string   `yaml:"rateLimitWindow"`
	TrustedProxies  []string `yaml:"trustedProxies"`
}

// Load reads config from path (defaults to config.yaml).
func Load(path string) (FileConfig, error) {
	cfg := FileConfig{}
	if path == "" {
		path = ConfigPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		cfg.AccessTokenTTL = v
	}
	if v := os.Getenv("REFRESH_TTL"); v != "" {
		cfg.RefreshTTL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		cfg.RateLimitWindow = v
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = strings.Split(v, ",")
	}
	// throttling defaults on; set rateLimit negative to disable
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 60
	}
	if cfg.RateLimitWindow == "" {
		cfg.RateLimitWindow = "1m"
	}
	if err := validateConfig(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validateConfig(cfg FileConfig) error {
	if cfg.Port == "" {
		return errors.New("config: port is required (set in config.yaml)")
	}
	if cfg.DatabaseURL == "" {
		return errors.New("config: databaseURL is required (set DATABASE_URL)")
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return errors.New("config: redisAddr is required for the refresh token cache")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return errors.New("config: jwtSecret is required (set JWT_SECRET)")
	}
	return nil
}

// ParseAccessTokenTTL parses the optional access token TTL string.
func ParseAccessTokenTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid accessTokenTTL duration: %w", err)
	}
	return dur, nil
}

// ParseRefreshTTL parses the optional refresh TTL string.
func ParseRefreshTTL(ttlStr string) (time.Duration, error) {
	if ttlStr == "" {
		return 0, nil
	}
	dur, err := time.ParseDuration(ttlStr)
	if err != nil {
		return 0, fmt.Errorf("invalid refreshTTL duration: %w", err)
	}
	return dur, nil
}

// ParseRateLimitWindow parses the rate limit window string.
func ParseRateLimitWindow(windowStr string) (time.Duration, error) {
	if windowStr == "" {
		return time.Minute, nil
	}
	dur, err := time.ParseDuration(windowStr)
	if err != nil {
		return 0, fmt.Errorf("invalid rateLimitWindow duration: %w", err)
	}
	return dur, nil
}

// Package config loads runtime configuration from environment variables and
// builds the storage backend it selects.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/aretw0/tendril/pkg/adapters/file"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/adapters/sqlite"
	"github.com/aretw0/tendril/pkg/persistence/middleware"
	"github.com/aretw0/tendril/pkg/ports"
)

// Config controls the process-level knobs: logging, the HTTP listener and the
// persistence backend. Everything has a working default so `tendril run` needs
// no environment at all.
type Config struct {
	LogLevel string `env:"TENDRIL_LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"TENDRIL_HTTP_ADDR" envDefault:":8080"`

	Store     string `env:"TENDRIL_STORE"      envDefault:"memory"`
	StorePath string `env:"TENDRIL_STORE_PATH" envDefault:".tendril/interactions"`

	// StoreKey enables at-rest encryption of stored records when set. Base64,
	// 32 bytes decoded. Fallback keys allow rotation without downtime.
	StoreKey          string   `env:"TENDRIL_STORE_KEY"`
	StoreKeyFallbacks []string `env:"TENDRIL_STORE_KEY_FALLBACKS" envSeparator:","`

	RedisAddr     string        `env:"TENDRIL_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string        `env:"TENDRIL_REDIS_PASSWORD"`
	RedisDB       int           `env:"TENDRIL_REDIS_DB"       envDefault:"0"`
	RedisTTL      time.Duration `env:"TENDRIL_REDIS_TTL"      envDefault:"0"`

	SQLitePath string `env:"TENDRIL_SQLITE_PATH" envDefault:".tendril/tendril.db"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level maps the configured log level name onto slog.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Backend builds the storage backend the configuration selects, wrapped in
// encryption when a store key is configured. The returned close function
// releases backend resources; it is a no-op for backends that hold none.
func (c Config) Backend() (ports.StorageBackend, func() error, error) {
	backend, closeFn, err := c.rawBackend()
	if err != nil {
		return nil, nil, err
	}
	if c.StoreKey == "" {
		return backend, closeFn, nil
	}

	active, err := base64.StdEncoding.DecodeString(c.StoreKey)
	if err != nil {
		return nil, nil, fmt.Errorf("decode store key: %w", err)
	}
	if len(active) != 32 {
		return nil, nil, fmt.Errorf("store key must decode to 32 bytes, got %d", len(active))
	}
	var fallbacks [][]byte
	for _, raw := range c.StoreKeyFallbacks {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("decode fallback store key: %w", err)
		}
		fallbacks = append(fallbacks, key)
	}

	wrap := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallbacks,
	})
	return wrap(backend), closeFn, nil
}

func (c Config) rawBackend() (ports.StorageBackend, func() error, error) {
	noop := func() error { return nil }
	switch c.Store {
	case "memory":
		return memory.NewStore(), noop, nil
	case "file":
		return file.New(c.StorePath), noop, nil
	case "redis":
		var opts []redis.Option
		if c.RedisTTL > 0 {
			opts = append(opts, redis.WithTTL(c.RedisTTL))
		}
		store := redis.New(c.RedisAddr, c.RedisPassword, c.RedisDB, opts...)
		return store, store.Close, nil
	case "sqlite":
		store, err := sqlite.Open(c.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", c.Store)
	}
}

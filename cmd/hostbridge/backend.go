package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/hostbridge/internal/config"
	"github.com/aretw0/hostbridge/pkg/adapters/inproc"
	"github.com/aretw0/hostbridge/pkg/adapters/memory"
	"github.com/aretw0/hostbridge/pkg/adapters/redis"
	"github.com/aretw0/hostbridge/pkg/commands"
	"github.com/aretw0/hostbridge/pkg/persistence/middleware"
	"github.com/aretw0/hostbridge/pkg/ports"
)

// backend is the server side shared by serve, mcp and invoke --local.
type backend struct {
	registry *inproc.Registry
	bus      *inproc.Bus
	store    ports.SettingsStore
	close    func() error
}

func newBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{close: func() error { return nil }}

	switch cfg.Store.Driver {
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Store.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Store.Prefix))
		}
		store := redis.New(cfg.Store.RedisAddr, opts...)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Store.RedisAddr, err)
		}
		b.store = store
		b.close = store.Close
		logger.Info("Settings store ready", "driver", config.StoreRedis, "addr", cfg.Store.RedisAddr)
	default:
		b.store = memory.NewSettingsStore()
		logger.Debug("Settings store ready", "driver", config.StoreMemory)
	}

	mws, err := storeMiddleware(cfg.Store)
	if err != nil {
		_ = b.close()
		return nil, err
	}
	b.store = middleware.Chain(b.store, mws...)

	b.registry = inproc.NewRegistry(inproc.WithRegistryLogger(logger))
	commands.Register(b.registry, b.store)
	b.bus = inproc.NewBus(inproc.WithBusLogger(logger))
	return b, nil
}

// storeMiddleware builds the masking and encryption layers configured for the store.
// Masking runs first so masked values are encrypted like any other.
func storeMiddleware(cfg config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.MaskPatterns) > 0 {
		mw, err := middleware.NewPIIMiddleware(cfg.MaskPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	if cfg.EncryptionKey != "" {
		active, err := middleware.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, err
		}
		enc := middleware.EncryptionConfig{ActiveKey: active}
		for _, k := range cfg.FallbackKeys {
			key, err := middleware.DecodeKey(k)
			if err != nil {
				return nil, err
			}
			enc.FallbackKeys = append(enc.FallbackKeys, key)
		}
		mw, err := middleware.NewEncryptionMiddleware(enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

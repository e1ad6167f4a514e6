package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/foxseedlab/jukebox/internal/cache"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/samber/do/v2"
)

const pingTimeout = 5 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (cache.Cache, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RedisURL == "" {
			slog.Info("resolution cache disabled")
			return NopCache{}, nil
		}
		c, err := NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			slog.Warn("redis is unreachable; resolution cache will retry per request", "error", err)
		}
		return c, nil
	})
}

package cache

import (
	"context"
	"time"

	"github.com/foxseedlab/jukebox/internal/cache"
)

// NopCache always misses; it stands in when no redis is configured.
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) error {
	return cache.ErrMiss
}

func (NopCache) SetJSON(context.Context, string, any, time.Duration) error {
	return nil
}

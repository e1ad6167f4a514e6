package resolver

import (
	"log/slog"

	"github.com/foxseedlab/jukebox/internal/cache"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/foxseedlab/jukebox/internal/resolver"
	"github.com/kkdai/youtube/v2"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		var local *LocalSource
		if cfg.LocalMediaDir != "" {
			local = NewLocalSource(cfg.LocalMediaDir)
			slog.Info("local media source enabled", "dir", cfg.LocalMediaDir)
		}
		return NewDispatcher(NewYouTubeSource(&youtube.Client{}), local, NewSearcher()), nil
	})
	do.Provide(injector, func(i do.Injector) (resolver.Resolver, error) {
		cfg := do.MustInvoke[*config.Config](i)
		c := do.MustInvoke[cache.Cache](i)
		return NewCachedResolver(do.MustInvoke[*Dispatcher](i), c, cfg.ResolveCacheTTL()), nil
	})
	do.Provide(injector, func(i do.Injector) (resolver.StreamLocator, error) {
		return do.MustInvoke[*Dispatcher](i), nil
	})
}

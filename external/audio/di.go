package audio

import (
	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/foxseedlab/jukebox/internal/resolver"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.PlayerFactory, error) {
		cfg := do.MustInvoke[*config.Config](i)
		locator := do.MustInvoke[resolver.StreamLocator](i)
		source := NewFFmpegSource(cfg.FFmpegPath, locator)
		return audio.PlayerFactory(func() audio.Player {
			return NewStreamPlayer(source, NewOpusEncoder)
		}), nil
	})
}

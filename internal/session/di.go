package session

import (
	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/catalog"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/foxseedlab/jukebox/internal/discord"
	"github.com/foxseedlab/jukebox/internal/repository"
	"github.com/foxseedlab/jukebox/internal/resolver"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Manager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		newPlayer := do.MustInvoke[audio.PlayerFactory](i)
		res := do.MustInvoke[resolver.Resolver](i)
		history := do.MustInvoke[repository.PlayHistory](i)
		cat := do.MustInvoke[catalog.Catalog](i)
		return NewManager(cfg, dc, newPlayer, res, history, cat), nil
	})
}

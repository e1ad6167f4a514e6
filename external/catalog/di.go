package catalog

import (
	"github.com/foxseedlab/jukebox/internal/catalog"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (catalog.Catalog, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewSteamStore(c.SteamAppListURL, c.SteamStoreBaseURL), nil
	})
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/jukebox/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                string  `env:"ENV" envDefault:"production"`
	DiscordToken       string  `env:"DISCORD_TOKEN,required"`
	CommandPrefix      string  `env:"COMMAND_PREFIX" envDefault:"!"`
	BotNickname        string  `env:"BOT_NICKNAME" envDefault:"Bottinator"`
	DefaultVolume      int     `env:"DEFAULT_VOLUME" envDefault:"100"`
	ResolveWorkers     int     `env:"RESOLVE_WORKERS" envDefault:"4"`
	ResolveRatePerSec  float64 `env:"RESOLVE_RATE_PER_SEC" envDefault:"5"`
	ResolveTimeoutSec  int     `env:"RESOLVE_TIMEOUT_SEC" envDefault:"30"`
	RedisURL           string  `env:"REDIS_URL"`
	ResolveCacheTTLMin int     `env:"RESOLVE_CACHE_TTL_MIN" envDefault:"60"`
	DatabaseURL        string  `env:"DATABASE_URL"`
	HistoryLimit       int     `env:"HISTORY_LIMIT" envDefault:"12"`
	LocalMediaDir      string  `env:"LOCAL_MEDIA_DIR"`
	FFmpegPath         string  `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	SteamAppListURL    string  `env:"STEAM_APP_LIST_URL" envDefault:"https://api.steampowered.com/ISteamApps/GetAppList/v2/"`
	SteamStoreBaseURL  string  `env:"STEAM_STORE_BASE_URL" envDefault:"https://store.steampowered.com"`
	Timezone           string  `env:"TIMEZONE" envDefault:"UTC"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*internalconfig.Config, error) {
	return LoadFiles(".env")
}

func LoadFiles(dotenvFiles ...string) (*internalconfig.Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("dotenv file not found; using process environment", "file", f)
				continue
			}
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                raw.Env,
		DiscordToken:       raw.DiscordToken,
		CommandPrefix:      raw.CommandPrefix,
		BotNickname:        raw.BotNickname,
		DefaultVolume:      raw.DefaultVolume,
		ResolveWorkers:     raw.ResolveWorkers,
		ResolveRatePerSec:  raw.ResolveRatePerSec,
		ResolveTimeoutSec:  raw.ResolveTimeoutSec,
		RedisURL:           raw.RedisURL,
		ResolveCacheTTLMin: raw.ResolveCacheTTLMin,
		DatabaseURL:        raw.DatabaseURL,
		HistoryLimit:       raw.HistoryLimit,
		LocalMediaDir:      raw.LocalMediaDir,
		FFmpegPath:         raw.FFmpegPath,
		SteamAppListURL:    raw.SteamAppListURL,
		SteamStoreBaseURL:  raw.SteamStoreBaseURL,
		Timezone:           raw.Timezone,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

package config

import (
	"fmt"
	"time"
)

const maxVolume = 1000

type Config struct {
	Env                string
	DiscordToken       string
	CommandPrefix      string
	BotNickname        string
	DefaultVolume      int
	ResolveWorkers     int
	ResolveRatePerSec  float64
	ResolveTimeoutSec  int
	RedisURL           string
	ResolveCacheTTLMin int
	DatabaseURL        string
	HistoryLimit       int
	LocalMediaDir      string
	FFmpegPath         string
	SteamAppListURL    string
	SteamStoreBaseURL  string
	Timezone           string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > maxVolume {
		return fmt.Errorf("DEFAULT_VOLUME must be between 0 and %d, got %d", maxVolume, c.DefaultVolume)
	}
	if c.ResolveWorkers <= 0 {
		return fmt.Errorf("RESOLVE_WORKERS must be positive, got %d", c.ResolveWorkers)
	}
	if c.ResolveRatePerSec <= 0 {
		return fmt.Errorf("RESOLVE_RATE_PER_SEC must be positive, got %v", c.ResolveRatePerSec)
	}
	if c.ResolveTimeoutSec <= 0 {
		return fmt.Errorf("RESOLVE_TIMEOUT_SEC must be positive, got %d", c.ResolveTimeoutSec)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "COMMAND_PREFIX", value: c.CommandPrefix},
		{name: "FFMPEG_PATH", value: c.FFmpegPath},
		{name: "TIMEZONE", value: c.Timezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) ResolveTimeout() time.Duration {
	return time.Duration(c.ResolveTimeoutSec) * time.Second
}

func (c *Config) ResolveCacheTTL() time.Duration {
	return time.Duration(c.ResolveCacheTTLMin) * time.Minute
}

// Location falls back to UTC; Validate has already rejected bad names.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

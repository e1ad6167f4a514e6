package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	audioimpl "github.com/foxseedlab/jukebox/external/audio"
	cacheimpl "github.com/foxseedlab/jukebox/external/cache"
	catalogimpl "github.com/foxseedlab/jukebox/external/catalog"
	configloader "github.com/foxseedlab/jukebox/external/config"
	"github.com/foxseedlab/jukebox/external/discord"
	repositoryimpl "github.com/foxseedlab/jukebox/external/repository"
	resolverimpl "github.com/foxseedlab/jukebox/external/resolver"
	"github.com/foxseedlab/jukebox/internal/config"
	discordpkg "github.com/foxseedlab/jukebox/internal/discord"
	"github.com/foxseedlab/jukebox/internal/session"
	"github.com/samber/do/v2"
)

const discordConnectTimeout = 20 * time.Second

func main() {
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "prefix", cfg.CommandPrefix)

	injector := setupDI(cfg)
	if err := runBot(injector); err != nil {
		slog.Error("bot stopped with error", "error", err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.IsDevelopment() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()
	do.ProvideValue(injector, cfg)
	for _, register := range []func(do.Injector){
		cacheimpl.RegisterDI,
		repositoryimpl.RegisterDI,
		resolverimpl.RegisterDI,
		audioimpl.RegisterDI,
		discord.RegisterDI,
		catalogimpl.RegisterDI,
		session.RegisterDI,
	} {
		register(injector)
	}
	return injector
}

func runBot(injector do.Injector) error {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		return err
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		return err
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), discordConnectTimeout)
	err = dc.Connect(connectCtx)
	cancelConnect()
	if err != nil {
		return err
	}
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()
	if botUserID, err := dc.GetBotUserID(); err == nil {
		slog.Info("startup: discord connected", "bot_user_id", botUserID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := manager.Run(ctx); err != nil {
			slog.Error("track loader stopped", "error", err)
		}
	}()
	dc.RegisterMessageHandler(manager.HandleMessage)

	go func() {
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		stop()
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

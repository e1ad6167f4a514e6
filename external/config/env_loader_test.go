package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFiles_DefaultsAndRequired(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")

	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CommandPrefix != "!" {
		t.Fatalf("unexpected prefix: %q", cfg.CommandPrefix)
	}
	if cfg.DefaultVolume != 100 {
		t.Fatalf("unexpected default volume: %d", cfg.DefaultVolume)
	}
	if cfg.BotNickname != "Bottinator" {
		t.Fatalf("unexpected nickname: %q", cfg.BotNickname)
	}
	if cfg.HistoryLimit != 12 {
		t.Fatalf("unexpected history limit: %d", cfg.HistoryLimit)
	}
}

func TestLoadFiles_MissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")

	if _, err := LoadFiles(); err == nil {
		t.Fatal("expected error when DISCORD_TOKEN is missing")
	}
}

func TestLoadFiles_ReadsDotenv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	os.Unsetenv("DISCORD_TOKEN")
	t.Setenv("COMMAND_PREFIX", "")
	os.Unsetenv("COMMAND_PREFIX")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("DISCORD_TOKEN=from-file\nCOMMAND_PREFIX=?\n"), 0o600); err != nil {
		t.Fatalf("failed to write dotenv: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("DISCORD_TOKEN")
		os.Unsetenv("COMMAND_PREFIX")
	})

	cfg, err := LoadFiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DiscordToken != "from-file" {
		t.Fatalf("unexpected token: %q", cfg.DiscordToken)
	}
	if cfg.CommandPrefix != "?" {
		t.Fatalf("unexpected prefix: %q", cfg.CommandPrefix)
	}
}

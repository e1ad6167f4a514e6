package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/catalog"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/foxseedlab/jukebox/internal/dice"
	"github.com/foxseedlab/jukebox/internal/discord"
	"github.com/foxseedlab/jukebox/internal/repository"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

const (
	historyWriteTimeout = 5 * time.Second
	historyReadTimeout  = 10 * time.Second
	storeLookupTimeout  = 30 * time.Second
)

var volumeArgPattern = regexp.MustCompile(`^[1-9]?[0-9]$`)

// Manager is the command surface over the per-guild audio sessions.
type Manager struct {
	cfg       *config.Config
	discord   discord.Client
	registry  *Registry
	connector *Connector
	loader    *Loader
	history   repository.PlayHistory
	catalog   catalog.Catalog
	roller    *dice.Roller
	nicknames keyedMutex
}

func NewManager(cfg *config.Config, dc discord.Client, newPlayer audio.PlayerFactory, res resolver.Resolver, history repository.PlayHistory, cat catalog.Catalog) *Manager {
	m := &Manager{
		cfg:     cfg,
		discord: dc,
		history: history,
		catalog: cat,
		roller:  dice.NewRoller(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	m.registry = NewRegistry(dc, newPlayer, cfg.DefaultVolume, m.recordPlay)
	m.connector = NewConnector(dc, dc)
	router := NewLoadResultRouter(m.registry, m.connector, dc)
	m.loader = NewLoader(res, router, cfg.ResolveWorkers, cfg.ResolveRatePerSec, cfg.ResolveTimeout())
	return m
}

// Run drives the resolution workers until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	return m.loader.Run(ctx)
}

func (m *Manager) HandleMessage(event discord.MessageEvent) {
	if event.UserIsBot || event.GuildID == "" {
		return
	}
	if !strings.HasPrefix(event.Content, m.cfg.CommandPrefix) {
		return
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(event.Content, m.cfg.CommandPrefix), " ")
	arg = strings.TrimSpace(arg)
	slog.Debug("command received", "guild_id", event.GuildID, "channel_id", event.ChannelID, "user_id", event.UserID, "command", name)

	switch name {
	case "help":
		m.reply(event.ChannelID, helpMessage(m.cfg.CommandPrefix))
	case "play":
		if arg == "" {
			m.reply(event.ChannelID, playUsageMessage(m.cfg.CommandPrefix))
			return
		}
		m.EnqueueByReference(event.GuildID, event.ChannelID, event.UserID, arg)
	case "skip":
		m.Skip(event.GuildID)
	case "leave":
		m.Leave(event.GuildID)
	case "connect":
		if arg == "" {
			m.Connect(event.GuildID, ByUser(event.UserID))
			return
		}
		m.Connect(event.GuildID, ByName(arg))
	case "queue":
		m.reply(event.ChannelID, formatQueue(m.ListQueued(event.GuildID)))
	case "pause":
		m.PauseToggle(event.GuildID)
	case "track":
		title, ok := m.NowPlayingTitle(event.GuildID)
		if !ok {
			title = messageNothingPlaying
		}
		m.reply(event.ChannelID, title)
	case "volume":
		if volumeArgPattern.MatchString(arg) {
			v, _ := strconv.Atoi(arg)
			m.SetVolume(event.GuildID, v)
			return
		}
		m.reply(event.ChannelID, volumeMessage(m.GetVolume(event.GuildID)))
	case "history":
		go m.replyHistory(event.GuildID, event.ChannelID)
	case "roll":
		m.reply(event.ChannelID, m.roll(arg))
	case "store":
		if arg == "" {
			return
		}
		go m.replyStorePages(event.ChannelID, arg)
	default:
		slog.Debug("unknown command ignored", "guild_id", event.GuildID, "command", name)
	}
}

// EnqueueByReference hands the reference to the resolution workers and
// returns at once; the outcome is replied to channelID.
func (m *Manager) EnqueueByReference(guildID, channelID, userID, reference string) {
	m.loader.Submit(LoadRequest{
		GuildID:   guildID,
		ChannelID: channelID,
		UserID:    userID,
		Reference: reference,
	})
}

func (m *Manager) Skip(guildID string) {
	m.registry.GetOrCreate(guildID).Scheduler().Skip()
}

// PauseToggle flips the guild's paused state, mirrors it in the bot
// nickname and returns the new state.
func (m *Manager) PauseToggle(guildID string) bool {
	paused := m.registry.GetOrCreate(guildID).TogglePause()
	slog.Info("pause toggled", "guild_id", guildID, "paused", paused)
	go m.syncNickname(guildID)
	return paused
}

func (m *Manager) GetVolume(guildID string) int {
	return m.registry.GetOrCreate(guildID).Volume()
}

func (m *Manager) SetVolume(guildID string, volume int) {
	m.registry.GetOrCreate(guildID).SetVolume(volume)
	slog.Info("volume changed", "guild_id", guildID, "volume", volume)
}

func (m *Manager) ListQueued(guildID string) []string {
	return m.registry.GetOrCreate(guildID).Scheduler().ListQueued()
}

func (m *Manager) NowPlayingTitle(guildID string) (string, bool) {
	return m.registry.GetOrCreate(guildID).NowPlayingTitle()
}

func (m *Manager) Connect(guildID string, target ConnectTarget) {
	m.registry.GetOrCreate(guildID)
	m.connector.Connect(guildID, target)
}

// Leave disconnects and, when audio was audible, pauses so the session
// state matches the silent connection. Queue and volume are kept.
func (m *Manager) Leave(guildID string) {
	if !m.connector.Leave(guildID) {
		return
	}
	if m.registry.GetOrCreate(guildID).PauseIfProducing() {
		slog.Info("paused on leave", "guild_id", guildID)
		go m.syncNickname(guildID)
	}
}

func (m *Manager) History(ctx context.Context, guildID string) ([]repository.PlayRecord, error) {
	return m.history.ListRecentPlays(ctx, guildID, m.cfg.HistoryLimit)
}

func (m *Manager) reply(channelID, content string) {
	if err := m.discord.SendChannelMessage(channelID, content); err != nil {
		slog.Error("failed to send channel message", "error", err, "channel_id", channelID)
	}
}

// syncNickname mirrors the session's current paused state in the bot
// nickname. Updates for one guild run one at a time and read the state
// inside the lock, so the last write always reflects the latest toggle.
func (m *Manager) syncNickname(guildID string) {
	unlock := m.nicknames.lock(guildID)
	defer unlock()
	paused := m.registry.GetOrCreate(guildID).Paused()
	if err := m.discord.SetSelfNickname(guildID, nicknameFor(m.cfg.BotNickname, paused)); err != nil {
		slog.Warn("failed to update nickname", "error", err, "guild_id", guildID, "paused", paused)
	}
}

func (m *Manager) recordPlay(guildID string, track *audio.Track) {
	record := repository.PlayRecord{
		GuildID:   guildID,
		Title:     track.Title,
		Reference: track.Reference,
		StartedAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()
		if err := m.history.RecordPlay(ctx, record); err != nil && !errors.Is(err, repository.ErrHistoryDisabled) {
			slog.Warn("failed to record play", "error", err, "guild_id", guildID, "title", record.Title)
		}
	}()
}

func (m *Manager) replyHistory(guildID, channelID string) {
	ctx, cancel := context.WithTimeout(context.Background(), historyReadTimeout)
	defer cancel()
	records, err := m.History(ctx, guildID)
	switch {
	case errors.Is(err, repository.ErrHistoryDisabled):
		m.reply(channelID, messageHistoryDisabled)
	case err != nil:
		slog.Error("failed to list play history", "error", err, "guild_id", guildID)
		m.reply(channelID, messageHistoryFailed)
	default:
		m.reply(channelID, formatHistory(records, m.cfg.Location()))
	}
}

func (m *Manager) replyStorePages(channelID, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeLookupTimeout)
	defer cancel()
	pages, err := m.catalog.FindStorePages(ctx, strings.ToLower(query), catalog.MaxStorePages)
	if err != nil {
		slog.Error("store lookup failed", "error", err, "query", query)
		m.reply(channelID, messageStoreFailed)
		return
	}
	for _, url := range pages {
		m.reply(channelID, url)
	}
}

func (m *Manager) roll(arg string) string {
	expr, err := dice.Parse(arg)
	if err != nil {
		return dice.FormatHint
	}
	return m.roller.Roll(expr)
}

package session

import (
	"log/slog"
	"sync"

	"github.com/foxseedlab/jukebox/internal/discord"
)

// Connector decides whether to open, move or close a guild's voice
// connection. Decisions for one guild are serialized so concurrent requests
// never issue duplicate connection attempts.
type Connector struct {
	gateway   discord.VoiceGateway
	directory discord.ChannelDirectory
	locks     keyedMutex
}

func NewConnector(gateway discord.VoiceGateway, directory discord.ChannelDirectory) *Connector {
	return &Connector{
		gateway:   gateway,
		directory: directory,
	}
}

// EnsureConnected opens a connection for playback. It is a no-op while the
// guild is connected or a connection attempt is in flight.
func (c *Connector) EnsureConnected(guildID string, target ConnectTarget) {
	unlock := c.locks.lock(guildID)
	defer unlock()
	if c.gateway.IsConnected(guildID) || c.gateway.IsAttemptingToConnect(guildID) {
		return
	}
	if channels, ok := c.voiceChannels(guildID); ok {
		c.openLocked(guildID, channels, target)
	}
}

// Connect handles an explicit connect request: it moves an existing
// connection to the target channel unless it is already there. A by-user
// request for a user outside voice falls back to the default channel, which
// never moves a connected bot.
func (c *Connector) Connect(guildID string, target ConnectTarget) bool {
	unlock := c.locks.lock(guildID)
	defer unlock()
	if c.gateway.IsAttemptingToConnect(guildID) {
		slog.Debug("connect ignored; attempt already in flight", "guild_id", guildID)
		return false
	}
	channels, ok := c.voiceChannels(guildID)
	if !ok {
		return false
	}
	if target.kind == targetByUser && !inVoice(channels, target.UserID) && c.gateway.IsConnected(guildID) {
		slog.Debug("connect ignored; user is not in voice", "guild_id", guildID, "user_id", target.UserID)
		return false
	}
	return c.openLocked(guildID, channels, target)
}

func (c *Connector) voiceChannels(guildID string) ([]discord.VoiceChannel, bool) {
	channels, err := c.directory.ListVoiceChannels(guildID)
	if err != nil {
		slog.Error("failed to list voice channels", "error", err, "guild_id", guildID)
		return nil, false
	}
	return channels, true
}

func (c *Connector) openLocked(guildID string, channels []discord.VoiceChannel, target ConnectTarget) bool {
	ch, ok := SelectChannel(channels, target)
	if !ok {
		slog.Info("no voice channel matched", "guild_id", guildID, "target_name", target.Name, "target_user_id", target.UserID)
		return false
	}
	if c.gateway.IsConnected(guildID) && c.gateway.ConnectedChannelID(guildID) == ch.ID {
		return false
	}
	slog.Info("opening voice connection", "guild_id", guildID, "channel_id", ch.ID, "channel_name", ch.Name)
	c.gateway.OpenAudioConnection(guildID, ch.ID)
	return true
}

// Leave closes the guild's voice connection and reports whether one was open.
func (c *Connector) Leave(guildID string) bool {
	unlock := c.locks.lock(guildID)
	defer unlock()
	if !c.gateway.IsConnected(guildID) && !c.gateway.IsAttemptingToConnect(guildID) {
		return false
	}
	c.gateway.CloseAudioConnection(guildID)
	slog.Info("voice connection closed", "guild_id", guildID)
	return true
}

type keyedMutex struct {
	locks sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

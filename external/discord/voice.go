package discord

import (
	"log/slog"
	"sync"
	"time"

	"github.com/foxseedlab/jukebox/internal/audio"
)

const frameInterval = 20 * time.Millisecond

type voiceLink interface {
	Frames() chan<- []byte
	Speaking(speaking bool) error
	Disconnect() error
	// connection identifies the underlying voice connection. discordgo keeps
	// one connection per guild and reuses it when moving between channels.
	connection() any
}

type joinFunc func(guildID, channelID string) (voiceLink, error)

type guildVoice struct {
	link       voiceLink
	channelID  string
	connecting bool
	provider   audio.FrameProvider
	stopPump   chan struct{}
}

// voiceGateway keeps per-guild connection state and pumps one opus frame
// every 20ms from the guild's FrameProvider into its connection.
type voiceGateway struct {
	join joinFunc

	mu     sync.Mutex
	guilds map[string]*guildVoice
}

func newVoiceGateway(join joinFunc) *voiceGateway {
	return &voiceGateway{
		join:   join,
		guilds: make(map[string]*guildVoice),
	}
}

func (g *voiceGateway) guildLocked(guildID string) *guildVoice {
	gv, ok := g.guilds[guildID]
	if !ok {
		gv = &guildVoice{}
		g.guilds[guildID] = gv
	}
	return gv
}

func (g *voiceGateway) IsConnected(guildID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guildLocked(guildID).link != nil
}

func (g *voiceGateway) IsAttemptingToConnect(guildID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guildLocked(guildID).connecting
}

func (g *voiceGateway) ConnectedChannelID(guildID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	gv := g.guildLocked(guildID)
	if gv.link == nil {
		return ""
	}
	return gv.channelID
}

func (g *voiceGateway) OpenAudioConnection(guildID, channelID string) {
	g.mu.Lock()
	gv := g.guildLocked(guildID)
	if gv.connecting {
		g.mu.Unlock()
		return
	}
	gv.connecting = true
	g.mu.Unlock()

	go g.connect(guildID, channelID)
}

func (g *voiceGateway) connect(guildID, channelID string) {
	link, err := g.join(guildID, channelID)

	g.mu.Lock()
	gv := g.guildLocked(guildID)
	if !gv.connecting {
		// Closed while the join was in flight.
		g.mu.Unlock()
		if err == nil {
			_ = link.Disconnect()
		}
		return
	}
	gv.connecting = false
	if err != nil {
		g.mu.Unlock()
		slog.Error("failed to join voice channel", "error", err, "guild_id", guildID, "channel_id", channelID)
		return
	}
	old, oldStop := gv.link, gv.stopPump
	stop := make(chan struct{})
	gv.link, gv.channelID, gv.stopPump = link, channelID, stop
	g.mu.Unlock()

	if oldStop != nil {
		close(oldStop)
	}
	if old != nil && old.connection() != link.connection() {
		if err := old.Disconnect(); err != nil {
			slog.Warn("failed to disconnect previous voice connection", "error", err, "guild_id", guildID)
		}
	}
	slog.Info("joined voice channel", "guild_id", guildID, "channel_id", channelID)
	go g.pump(guildID, link, stop)
}

func (g *voiceGateway) CloseAudioConnection(guildID string) {
	g.mu.Lock()
	gv := g.guildLocked(guildID)
	link, stop := gv.link, gv.stopPump
	gv.link, gv.channelID, gv.stopPump, gv.connecting = nil, "", nil, false
	g.mu.Unlock()

	if stop != nil {
		close(stop)
	}
	if link != nil {
		if err := link.Disconnect(); err != nil {
			slog.Warn("failed to disconnect voice connection", "error", err, "guild_id", guildID)
		}
	}
}

func (g *voiceGateway) closeAll() {
	g.mu.Lock()
	ids := make([]string, 0, len(g.guilds))
	for id := range g.guilds {
		ids = append(ids, id)
	}
	g.mu.Unlock()
	for _, id := range ids {
		g.CloseAudioConnection(id)
	}
}

func (g *voiceGateway) SetSendingHandler(guildID string, provider audio.FrameProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guildLocked(guildID).provider = provider
}

func (g *voiceGateway) SendingHandler(guildID string) audio.FrameProvider {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.guildLocked(guildID).provider
}

func (g *voiceGateway) pump(guildID string, link voiceLink, stop <-chan struct{}) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	speaking := false
	setSpeaking := func(v bool) {
		if speaking == v {
			return
		}
		speaking = v
		if err := link.Speaking(v); err != nil {
			slog.Debug("failed to update speaking state", "error", err, "guild_id", guildID, "speaking", v)
		}
	}

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		provider := g.SendingHandler(guildID)
		if provider == nil {
			setSpeaking(false)
			continue
		}
		frame, ok := provider.ProvideFrame()
		if !ok {
			setSpeaking(false)
			continue
		}
		setSpeaking(true)
		select {
		case link.Frames() <- frame:
		case <-stop:
			return
		}
	}
}

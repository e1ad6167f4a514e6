package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/config"
	"github.com/foxseedlab/jukebox/internal/discord"
	"github.com/foxseedlab/jukebox/internal/repository"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

type mockPlayer struct {
	mu         sync.Mutex
	current    *audio.Track
	paused     bool
	volume     int
	playCalls  []*audio.Track
	stopCalls  int
	onFinished func(*audio.Track)
}

func (p *mockPlayer) ProvideFrame() ([]byte, bool) { return nil, false }

func (p *mockPlayer) Play(track *audio.Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = track
	p.playCalls = append(p.playCalls, track)
}

func (p *mockPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	p.stopCalls++
}

func (p *mockPlayer) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = paused
}

func (p *mockPlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *mockPlayer) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *mockPlayer) SetVolume(volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

func (p *mockPlayer) CurrentTrack() *audio.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *mockPlayer) OnTrackFinished(fn func(*audio.Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}

// finish simulates the current track reaching its natural end.
func (p *mockPlayer) finish() {
	p.mu.Lock()
	ended := p.current
	p.current = nil
	fn := p.onFinished
	p.mu.Unlock()
	if fn != nil && ended != nil {
		fn(ended)
	}
}

func (p *mockPlayer) plays() []*audio.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*audio.Track(nil), p.playCalls...)
}

type mockDiscordClient struct {
	mu         sync.Mutex
	channels   map[string][]discord.VoiceChannel
	connected  map[string]string
	connecting map[string]bool
	handlers   map[string]audio.FrameProvider
	openCalls  []string
	closeCalls int
	setCalls   int
	sendCalls  []string
	nicknames  []string

	// nicknameHold, when set, blocks the next nickname update until closed.
	nicknameHold chan struct{}
}

func newMockDiscordClient() *mockDiscordClient {
	return &mockDiscordClient{
		channels:   make(map[string][]discord.VoiceChannel),
		connected:  make(map[string]string),
		connecting: make(map[string]bool),
		handlers:   make(map[string]audio.FrameProvider),
	}
}

func (m *mockDiscordClient) IsConnected(guildID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.connected[guildID]
	return ok
}

func (m *mockDiscordClient) IsAttemptingToConnect(guildID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connecting[guildID]
}

func (m *mockDiscordClient) ConnectedChannelID(guildID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected[guildID]
}

// OpenAudioConnection leaves the guild in the connecting state until
// completeConnection is called.
func (m *mockDiscordClient) OpenAudioConnection(guildID, channelID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openCalls = append(m.openCalls, channelID)
	m.connecting[guildID] = true
}

func (m *mockDiscordClient) completeConnection(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connecting[guildID] {
		return
	}
	m.connecting[guildID] = false
	m.connected[guildID] = m.openCalls[len(m.openCalls)-1]
}

func (m *mockDiscordClient) CloseAudioConnection(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	delete(m.connected, guildID)
	m.connecting[guildID] = false
}

func (m *mockDiscordClient) SetSendingHandler(guildID string, provider audio.FrameProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	m.handlers[guildID] = provider
}

func (m *mockDiscordClient) SendingHandler(guildID string) audio.FrameProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handlers[guildID]
}

func (m *mockDiscordClient) ListVoiceChannels(guildID string) ([]discord.VoiceChannel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.channels[guildID], nil
}

func (m *mockDiscordClient) Connect(_ context.Context) error { return nil }
func (m *mockDiscordClient) Close() error                    { return nil }
func (m *mockDiscordClient) Run() error                      { return nil }

func (m *mockDiscordClient) SendChannelMessage(_ string, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendCalls = append(m.sendCalls, content)
	return nil
}

func (m *mockDiscordClient) RegisterMessageHandler(_ func(discord.MessageEvent)) {}

func (m *mockDiscordClient) SetSelfNickname(_ string, nickname string) error {
	m.mu.Lock()
	hold := m.nicknameHold
	m.nicknameHold = nil
	m.mu.Unlock()
	if hold != nil {
		<-hold
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nicknames = append(m.nicknames, nickname)
	return nil
}

func (m *mockDiscordClient) nicknameCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nicknames)
}

func (m *mockDiscordClient) GetBotUserID() (string, error) { return "bot-1", nil }

func (m *mockDiscordClient) opens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.openCalls...)
}

func (m *mockDiscordClient) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sendCalls...)
}

func (m *mockDiscordClient) lastNickname() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.nicknames) == 0 {
		return ""
	}
	return m.nicknames[len(m.nicknames)-1]
}

type mockResolver struct {
	mu       sync.Mutex
	outcomes map[string]resolver.LoadOutcome
	calls    []string
}

func (r *mockResolver) Load(_ context.Context, reference string) resolver.LoadOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, reference)
	if o, ok := r.outcomes[reference]; ok {
		return o
	}
	return resolver.NoMatches{}
}

type mockHistory struct {
	mu      sync.Mutex
	records []repository.PlayRecord
	listErr error
}

func (h *mockHistory) RecordPlay(_ context.Context, record repository.PlayRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return nil
}

func (h *mockHistory) ListRecentPlays(_ context.Context, _ string, limit int) ([]repository.PlayRecord, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listErr != nil {
		return nil, h.listErr
	}
	if limit > len(h.records) {
		limit = len(h.records)
	}
	return append([]repository.PlayRecord(nil), h.records[:limit]...), nil
}

func (h *mockHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

type mockCatalog struct {
	pages  []string
	err    error
	limits []int
}

func (c *mockCatalog) FindStorePages(_ context.Context, _ string, limit int) ([]string, error) {
	c.limits = append(c.limits, limit)
	return c.pages, c.err
}

func testConfig() *config.Config {
	return &config.Config{
		Env:                "development",
		DiscordToken:       "token",
		CommandPrefix:      "!",
		BotNickname:        "Bottinator",
		DefaultVolume:      100,
		ResolveWorkers:     2,
		ResolveRatePerSec:  100,
		ResolveTimeoutSec:  5,
		HistoryLimit:       12,
		FFmpegPath:         "ffmpeg",
		Timezone:           "UTC",
		SteamStoreBaseURL:  "https://store.example.com",
		SteamAppListURL:    "https://api.example.com/apps",
		ResolveCacheTTLMin: 60,
	}
}

func track(title string) *audio.Track {
	return &audio.Track{Title: title, Reference: "ref:" + title, Source: audio.SourceHTTP}
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool, message string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(message)
}

package session

import (
	"log/slog"
	"sync"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/discord"
)

// Registry maps guild IDs to their AudioSession. The lock only guards the map;
// session operations run under each session's own locks.
type Registry struct {
	gateway    discord.VoiceGateway
	newSession func(guildID string) *AudioSession

	mu       sync.RWMutex
	sessions map[string]*AudioSession
}

func NewRegistry(gateway discord.VoiceGateway, newPlayer audio.PlayerFactory, defaultVolume int, onStart func(guildID string, track *audio.Track)) *Registry {
	return &Registry{
		gateway: gateway,
		newSession: func(guildID string) *AudioSession {
			var hook func(*audio.Track)
			if onStart != nil {
				hook = func(t *audio.Track) { onStart(guildID, t) }
			}
			return NewAudioSession(guildID, newPlayer(), defaultVolume, hook)
		},
		sessions: make(map[string]*AudioSession),
	}
}

// GetOrCreate returns the guild's session, creating at most one per guild, and
// makes sure its player is the guild's sending handler.
func (r *Registry) GetOrCreate(guildID string) *AudioSession {
	r.mu.RLock()
	s, ok := r.sessions[guildID]
	r.mu.RUnlock()
	if !ok {
		r.mu.Lock()
		s, ok = r.sessions[guildID]
		if !ok {
			s = r.newSession(guildID)
			r.sessions[guildID] = s
			slog.Info("audio session created", "guild_id", guildID, "sessions", len(r.sessions))
		}
		r.mu.Unlock()
	}
	r.wireOutput(guildID, s)
	return s
}

func (r *Registry) wireOutput(guildID string, s *AudioSession) {
	if r.gateway.SendingHandler(guildID) == s.output() {
		return
	}
	r.gateway.SetSendingHandler(guildID, s.output())
	slog.Debug("sending handler wired", "guild_id", guildID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

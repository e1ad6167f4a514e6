package session

import (
	"sync"

	"github.com/foxseedlab/jukebox/internal/audio"
)

// AudioSession pairs one guild's player with its scheduler. It is created
// lazily by the Registry and lives for the rest of the process.
type AudioSession struct {
	guildID   string
	player    audio.Player
	scheduler *TrackScheduler

	mu     sync.Mutex
	paused bool
	volume int
}

func NewAudioSession(guildID string, player audio.Player, volume int, onStart func(*audio.Track)) *AudioSession {
	if player == nil {
		panic("session: audio session requires a player")
	}
	player.SetVolume(volume)
	return &AudioSession{
		guildID:   guildID,
		player:    player,
		scheduler: NewTrackScheduler(guildID, player, onStart),
		volume:    volume,
	}
}

func (s *AudioSession) GuildID() string {
	return s.guildID
}

func (s *AudioSession) Scheduler() *TrackScheduler {
	return s.scheduler
}

// TogglePause flips the paused flag and returns the new value. The queue and
// current track are left alone.
func (s *AudioSession) TogglePause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
	s.player.SetPaused(s.paused)
	return s.paused
}

func (s *AudioSession) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *AudioSession) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// SetVolume passes the value through unchanged; argument validation belongs
// to the command layer.
func (s *AudioSession) SetVolume(volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = volume
	s.player.SetVolume(volume)
}

func (s *AudioSession) NowPlayingTitle() (string, bool) {
	t := s.scheduler.Current()
	if t == nil {
		return "", false
	}
	return t.Title, true
}

// PauseIfProducing pauses the session only when it is audible and reports
// whether it did. The check and the pause happen under one lock so a
// concurrent toggle cannot slip in between.
func (s *AudioSession) PauseIfProducing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.producingLocked() {
		return false
	}
	s.paused = true
	s.player.SetPaused(true)
	return true
}

func (s *AudioSession) producingLocked() bool {
	return !s.paused && s.player.CurrentTrack() != nil
}

func (s *AudioSession) output() audio.FrameProvider {
	return s.player
}

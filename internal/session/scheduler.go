package session

import (
	"log/slog"
	"sync"

	"github.com/foxseedlab/jukebox/internal/audio"
)

// TrackScheduler owns one guild's FIFO queue and is the only writer of it.
// All mutations are serialized on mu; different guilds never share a lock.
type TrackScheduler struct {
	guildID string
	player  audio.Player
	onStart func(*audio.Track)

	mu      sync.Mutex
	queue   []*audio.Track
	current *audio.Track
}

func NewTrackScheduler(guildID string, player audio.Player, onStart func(*audio.Track)) *TrackScheduler {
	s := &TrackScheduler{
		guildID: guildID,
		player:  player,
		onStart: onStart,
	}
	player.OnTrackFinished(s.OnTrackFinished)
	return s
}

// Enqueue starts the track right away when nothing is playing, otherwise it
// waits at the tail of the queue.
func (s *TrackScheduler) Enqueue(track *audio.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enqueueLocked(track)
}

// EnqueueMany behaves like Enqueue applied to each track in order.
func (s *TrackScheduler) EnqueueMany(tracks []*audio.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tracks {
		s.enqueueLocked(t)
	}
}

func (s *TrackScheduler) enqueueLocked(track *audio.Track) {
	if s.current == nil {
		s.startLocked(track)
		return
	}
	s.queue = append(s.queue, track)
	slog.Debug("track queued", "guild_id", s.guildID, "title", track.Title, "queue_len", len(s.queue))
}

// OnTrackFinished advances the queue. Notifications for a track that is no
// longer current are ignored so a late callback cannot replay a stale track.
func (s *TrackScheduler) OnTrackFinished(ended *audio.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ended == nil || ended != s.current {
		slog.Debug("ignoring stale track finished notification", "guild_id", s.guildID)
		return
	}
	s.nextLocked()
}

func (s *TrackScheduler) Skip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLocked()
}

func (s *TrackScheduler) nextLocked() {
	if len(s.queue) == 0 {
		s.current = nil
		s.player.Stop()
		slog.Debug("queue drained; player idle", "guild_id", s.guildID)
		return
	}
	next := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	s.startLocked(next)
}

func (s *TrackScheduler) startLocked(track *audio.Track) {
	s.current = track
	s.player.Play(track)
	slog.Info("track started", "guild_id", s.guildID, "title", track.Title, "queue_len", len(s.queue))
	if s.onStart != nil {
		s.onStart(track)
	}
}

// ListQueued returns the pending titles in play order, excluding the current track.
func (s *TrackScheduler) ListQueued() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	titles := make([]string, 0, len(s.queue))
	for _, t := range s.queue {
		titles = append(titles, t.Title)
	}
	return titles
}

func (s *TrackScheduler) Current() *audio.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

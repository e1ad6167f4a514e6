package session

import (
	"reflect"
	"testing"

	"github.com/foxseedlab/jukebox/internal/audio"
)

func newTestScheduler() (*TrackScheduler, *mockPlayer) {
	p := &mockPlayer{}
	return NewTrackScheduler("guild-1", p, nil), p
}

func TestEnqueue_FirstTrackPlaysAndRestQueueInOrder(t *testing.T) {
	s, p := newTestScheduler()
	a, b, c := track("a"), track("b"), track("c")
	s.Enqueue(a)
	s.Enqueue(b)
	s.Enqueue(c)

	if s.Current() != a {
		t.Fatalf("expected first enqueued track to play, got %+v", s.Current())
	}
	if got := s.ListQueued(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("unexpected queue: %v", got)
	}
	if plays := p.plays(); len(plays) != 1 || plays[0] != a {
		t.Fatalf("expected exactly one play of a, got %v", plays)
	}
}

func TestEnqueueMany_EquivalentToRepeatedEnqueue(t *testing.T) {
	s, _ := newTestScheduler()
	s.Enqueue(track("x"))
	s.EnqueueMany([]*audio.Track{track("p1"), track("p2")})

	if got := s.ListQueued(); !reflect.DeepEqual(got, []string{"p1", "p2"}) {
		t.Fatalf("unexpected queue: %v", got)
	}
}

func TestOnTrackFinished_DrainsQueueToIdleOnce(t *testing.T) {
	s, p := newTestScheduler()
	a, b := track("a"), track("b")
	s.Enqueue(a)
	s.Enqueue(b)

	p.finish()
	if s.Current() != b {
		t.Fatalf("expected b to play after a finished, got %+v", s.Current())
	}
	p.finish()
	if s.Current() != nil {
		t.Fatalf("expected idle after queue drained, got %+v", s.Current())
	}
	if p.stopCalls != 1 {
		t.Fatalf("expected one idle transition, got %d", p.stopCalls)
	}

	plays := p.plays()
	if len(plays) != 2 || plays[0] != a || plays[1] != b {
		t.Fatalf("unexpected play sequence: %v", plays)
	}
}

func TestOnTrackFinished_IgnoresStaleTrack(t *testing.T) {
	s, p := newTestScheduler()
	a, b, c := track("a"), track("b"), track("c")
	s.Enqueue(a)
	s.Enqueue(b)
	s.Enqueue(c)
	s.Skip()

	// a was replaced by skip; a late notification for it must not advance.
	s.OnTrackFinished(a)
	if s.Current() != b {
		t.Fatalf("stale notification advanced the queue: current=%+v", s.Current())
	}
	if got := s.ListQueued(); !reflect.DeepEqual(got, []string{"c"}) {
		t.Fatalf("unexpected queue: %v", got)
	}
	if len(p.plays()) != 2 {
		t.Fatalf("expected two plays, got %d", len(p.plays()))
	}
}

func TestSkip_EmptyQueueGoesIdleThenEnqueueResumes(t *testing.T) {
	s, _ := newTestScheduler()
	s.Enqueue(track("a"))
	s.Skip()
	if s.Current() != nil {
		t.Fatalf("expected idle after skip with empty queue")
	}

	d := track("d")
	s.Enqueue(d)
	if s.Current() != d {
		t.Fatalf("expected enqueue after idle to resume playing, got %+v", s.Current())
	}
	if len(s.ListQueued()) != 0 {
		t.Fatalf("expected empty queue")
	}
}

func TestSkip_WhileIdleIsHarmless(t *testing.T) {
	s, p := newTestScheduler()
	s.Skip()
	if s.Current() != nil || len(p.plays()) != 0 {
		t.Fatalf("skip on idle scheduler should not play anything")
	}
}

func TestEnqueue_DuplicateTracksAllowed(t *testing.T) {
	s, _ := newTestScheduler()
	s.Enqueue(track("a"))
	s.Enqueue(track("same"))
	s.Enqueue(track("same"))
	if got := s.ListQueued(); !reflect.DeepEqual(got, []string{"same", "same"}) {
		t.Fatalf("unexpected queue: %v", got)
	}
}

func TestOnStartHook_CalledPerStartedTrack(t *testing.T) {
	p := &mockPlayer{}
	var started []string
	s := NewTrackScheduler("guild-1", p, func(t *audio.Track) { started = append(started, t.Title) })
	s.Enqueue(track("a"))
	s.Enqueue(track("b"))
	s.Skip()
	if !reflect.DeepEqual(started, []string{"a", "b"}) {
		t.Fatalf("unexpected started hooks: %v", started)
	}
}

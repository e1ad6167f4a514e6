package resolver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/cache"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

const (
	cacheKeyPrefix = "jukebox:resolve:"
	kindSingle     = "single"
	kindPlaylist   = "playlist"
)

type cachedTrack struct {
	Title     string `json:"title"`
	Reference string `json:"reference"`
	Source    string `json:"source"`
	StreamURL string `json:"stream_url,omitempty"`
}

type cachedOutcome struct {
	Kind   string        `json:"kind"`
	Name   string        `json:"name,omitempty"`
	Tracks []cachedTrack `json:"tracks"`
}

// CachedResolver remembers playable outcomes per reference. Failures and
// misses are never cached.
type CachedResolver struct {
	next  resolver.Resolver
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedResolver(next resolver.Resolver, c cache.Cache, ttl time.Duration) *CachedResolver {
	return &CachedResolver{next: next, cache: c, ttl: ttl}
}

func (r *CachedResolver) Load(ctx context.Context, reference string) resolver.LoadOutcome {
	key := cacheKeyPrefix + reference
	var hit cachedOutcome
	err := r.cache.GetJSON(ctx, key, &hit)
	switch {
	case err == nil:
		if outcome, ok := hit.outcome(); ok {
			slog.Debug("resolution cache hit", "reference", reference)
			return outcome
		}
	case !errors.Is(err, cache.ErrMiss):
		slog.Warn("resolution cache read failed", "error", err, "reference", reference)
	}

	outcome := r.next.Load(ctx, reference)
	if entry, ok := toCached(outcome); ok {
		if err := r.cache.SetJSON(ctx, key, entry, r.ttl); err != nil {
			slog.Warn("resolution cache write failed", "error", err, "reference", reference)
		}
	}
	return outcome
}

func toCached(outcome resolver.LoadOutcome) (cachedOutcome, bool) {
	switch o := outcome.(type) {
	case resolver.SingleTrack:
		return cachedOutcome{Kind: kindSingle, Tracks: []cachedTrack{fromTrack(o.Track)}}, true
	case resolver.Playlist:
		tracks := make([]cachedTrack, 0, len(o.Tracks))
		for _, t := range o.Tracks {
			tracks = append(tracks, fromTrack(t))
		}
		return cachedOutcome{Kind: kindPlaylist, Name: o.Name, Tracks: tracks}, true
	default:
		return cachedOutcome{}, false
	}
}

// outcome rebuilds fresh tracks so each load yields distinct track identities.
func (c cachedOutcome) outcome() (resolver.LoadOutcome, bool) {
	if len(c.Tracks) == 0 {
		return nil, false
	}
	switch c.Kind {
	case kindSingle:
		return resolver.SingleTrack{Track: c.Tracks[0].track()}, true
	case kindPlaylist:
		tracks := make([]*audio.Track, 0, len(c.Tracks))
		for _, t := range c.Tracks {
			tracks = append(tracks, t.track())
		}
		return resolver.Playlist{Name: c.Name, Tracks: tracks}, true
	default:
		return nil, false
	}
}

func fromTrack(t *audio.Track) cachedTrack {
	return cachedTrack{Title: t.Title, Reference: t.Reference, Source: t.Source, StreamURL: t.StreamURL}
}

func (c cachedTrack) track() *audio.Track {
	return &audio.Track{Title: c.Title, Reference: c.Reference, Source: c.Source, StreamURL: c.StreamURL}
}

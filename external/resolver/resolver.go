package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

type source interface {
	Name() string
	Match(reference string) bool
	Resolve(ctx context.Context, reference string) (resolver.LoadOutcome, error)
}

type searcher interface {
	SearchFirstVideoURL(ctx context.Context, query string) (string, error)
}

// Dispatcher routes a reference to the first source that claims it and
// treats anything unclaimed as a search query.
type Dispatcher struct {
	youtube *YouTubeSource
	sources []source
	search  searcher
}

func NewDispatcher(youtube *YouTubeSource, local *LocalSource, search searcher) *Dispatcher {
	sources := []source{youtube}
	if local != nil {
		sources = append(sources, local)
	}
	sources = append(sources, DirectSource{})
	return &Dispatcher{
		youtube: youtube,
		sources: sources,
		search:  search,
	}
}

func (d *Dispatcher) Load(ctx context.Context, reference string) resolver.LoadOutcome {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return resolver.NoMatches{}
	}
	for _, s := range d.sources {
		if !s.Match(reference) {
			continue
		}
		slog.Debug("resolving reference", "source", s.Name(), "reference", reference)
		return outcomeOf(s.Resolve(ctx, reference))
	}

	videoURL, err := d.search.SearchFirstVideoURL(ctx, reference)
	if err != nil {
		return resolver.OutcomeFromError(err)
	}
	slog.Debug("search matched video", "query", reference, "video_url", videoURL)
	return outcomeOf(d.youtube.Resolve(ctx, videoURL))
}

// Locate returns the input the decoder should open for the track.
func (d *Dispatcher) Locate(ctx context.Context, track *audio.Track) (string, error) {
	switch {
	case track.Source == audio.SourceYouTube:
		return d.youtube.Locate(ctx, track)
	case track.StreamURL != "":
		return track.StreamURL, nil
	case track.Reference != "":
		return track.Reference, nil
	default:
		return "", fmt.Errorf("track %q has nothing to stream", track.Title)
	}
}

func outcomeOf(outcome resolver.LoadOutcome, err error) resolver.LoadOutcome {
	if err != nil {
		return resolver.OutcomeFromError(err)
	}
	return outcome
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

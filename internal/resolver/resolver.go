package resolver

import (
	"context"
	"errors"

	"github.com/foxseedlab/jukebox/internal/audio"
)

var ErrNoMatches = errors.New("no matches")

// LoadOutcome is one of SingleTrack, Playlist, NoMatches or LoadFailed.
type LoadOutcome interface {
	isLoadOutcome()
}

type SingleTrack struct {
	Track *audio.Track
}

type Playlist struct {
	Name   string
	Tracks []*audio.Track
}

type NoMatches struct{}

type LoadFailed struct {
	Reason string
}

func (SingleTrack) isLoadOutcome() {}
func (Playlist) isLoadOutcome()    {}
func (NoMatches) isLoadOutcome()   {}
func (LoadFailed) isLoadOutcome()  {}

// OutcomeFromError maps a resolution error to NoMatches or LoadFailed.
func OutcomeFromError(err error) LoadOutcome {
	if errors.Is(err, ErrNoMatches) {
		return NoMatches{}
	}
	return LoadFailed{Reason: err.Error()}
}

type Resolver interface {
	Load(ctx context.Context, reference string) LoadOutcome
}

// StreamLocator turns a track into something the decoder can open.
type StreamLocator interface {
	Locate(ctx context.Context, track *audio.Track) (string, error)
}

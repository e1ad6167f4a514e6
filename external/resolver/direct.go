package resolver

import (
	"context"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

// DirectSource hands any other http(s) URL straight to the decoder.
type DirectSource struct{}

func (DirectSource) Name() string {
	return audio.SourceHTTP
}

func (DirectSource) Match(reference string) bool {
	return isURL(reference)
}

func (DirectSource) Resolve(_ context.Context, reference string) (resolver.LoadOutcome, error) {
	return resolver.SingleTrack{Track: &audio.Track{
		Title:     reference,
		Reference: reference,
		Source:    audio.SourceHTTP,
		StreamURL: reference,
	}}, nil
}

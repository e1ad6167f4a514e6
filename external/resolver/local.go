package resolver

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/resolver"
)

// LocalSource plays files below a fixed media directory.
type LocalSource struct {
	root string
}

func NewLocalSource(root string) *LocalSource {
	return &LocalSource{root: root}
}

func (s *LocalSource) Name() string {
	return audio.SourceLocal
}

func (s *LocalSource) Match(reference string) bool {
	if isURL(reference) {
		return false
	}
	info, err := os.Stat(s.path(reference))
	return err == nil && info.Mode().IsRegular()
}

func (s *LocalSource) Resolve(_ context.Context, reference string) (resolver.LoadOutcome, error) {
	p := s.path(reference)
	title := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	return resolver.SingleTrack{Track: &audio.Track{
		Title:     title,
		Reference: reference,
		Source:    audio.SourceLocal,
		StreamURL: p,
	}}, nil
}

// path keeps the reference inside root.
func (s *LocalSource) path(reference string) string {
	return filepath.Join(s.root, filepath.Clean("/"+reference))
}

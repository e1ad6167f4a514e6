package resolver

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/resolver"
	"github.com/kkdai/youtube/v2"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

var youtubeURLPattern = regexp.MustCompile(`^(?:https?://)?(?:www\.|music\.|m\.)?(?:youtube\.com|youtu\.be)/\S+`)

type youtubeClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
}

type YouTubeSource struct {
	client youtubeClient
}

func NewYouTubeSource(client youtubeClient) *YouTubeSource {
	return &YouTubeSource{client: client}
}

func (s *YouTubeSource) Name() string {
	return audio.SourceYouTube
}

func (s *YouTubeSource) Match(reference string) bool {
	return youtubeURLPattern.MatchString(reference)
}

func (s *YouTubeSource) Resolve(ctx context.Context, reference string) (resolver.LoadOutcome, error) {
	if isPlaylistURL(reference) {
		return s.resolvePlaylist(ctx, reference)
	}
	video, err := s.client.GetVideoContext(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to load video: %w", err)
	}
	return resolver.SingleTrack{Track: videoTrack(video.ID, video.Title)}, nil
}

func (s *YouTubeSource) resolvePlaylist(ctx context.Context, reference string) (resolver.LoadOutcome, error) {
	playlist, err := s.client.GetPlaylistContext(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist: %w", err)
	}
	tracks := make([]*audio.Track, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		if entry == nil || entry.ID == "" {
			continue
		}
		tracks = append(tracks, videoTrack(entry.ID, entry.Title))
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("playlist %q is empty: %w", playlist.Title, resolver.ErrNoMatches)
	}
	return resolver.Playlist{Name: playlist.Title, Tracks: tracks}, nil
}

// Locate fetches a fresh stream URL; they expire, so this runs at play time.
func (s *YouTubeSource) Locate(ctx context.Context, track *audio.Track) (string, error) {
	video, err := s.client.GetVideoContext(ctx, track.Reference)
	if err != nil {
		return "", fmt.Errorf("failed to load video: %w", err)
	}
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return "", fmt.Errorf("no audio formats found for video %s", video.ID)
	}
	streamURL, err := s.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return "", fmt.Errorf("failed to get stream url: %w", err)
	}
	return streamURL, nil
}

func videoTrack(id, title string) *audio.Track {
	return &audio.Track{
		Title:     title,
		Reference: fmt.Sprintf(watchURLFormat, id),
		Source:    audio.SourceYouTube,
	}
}

// isPlaylistURL reports whether the URL names a playlist rather than one
// video that happens to carry a list parameter.
func isPlaylistURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	q := u.Query()
	if q.Get("list") == "" {
		return false
	}
	return strings.TrimSuffix(u.Path, "/") == "/playlist" || q.Get("v") == ""
}

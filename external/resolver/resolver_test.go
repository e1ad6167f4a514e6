package resolver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/foxseedlab/jukebox/internal/audio"
	"github.com/foxseedlab/jukebox/internal/resolver"
	"github.com/kkdai/youtube/v2"
)

type fakeYouTube struct {
	videos    map[string]*youtube.Video
	playlists map[string]*youtube.Playlist
	streamURL string
}

func (f *fakeYouTube) GetVideoContext(_ context.Context, url string) (*youtube.Video, error) {
	if v, ok := f.videos[url]; ok {
		return v, nil
	}
	return nil, youtube.ErrVideoPrivate
}

func (f *fakeYouTube) GetPlaylistContext(_ context.Context, url string) (*youtube.Playlist, error) {
	if p, ok := f.playlists[url]; ok {
		return p, nil
	}
	return nil, errors.New("playlist not found")
}

func (f *fakeYouTube) GetStreamURLContext(_ context.Context, _ *youtube.Video, format *youtube.Format) (string, error) {
	return f.streamURL + "?itag=" + format.MimeType, nil
}

type fakeSearcher struct {
	results map[string]string
	queries []string
}

func (s *fakeSearcher) SearchFirstVideoURL(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	if u, ok := s.results[query]; ok {
		return u, nil
	}
	return "", resolver.ErrNoMatches
}

const videoURL = "https://www.youtube.com/watch?v=abcdefghijk"

func newTestDispatcher(t *testing.T, mediaDir string) (*Dispatcher, *fakeSearcher) {
	t.Helper()
	yt := &fakeYouTube{
		videos: map[string]*youtube.Video{
			videoURL: {
				ID:    "abcdefghijk",
				Title: "Never Gonna",
				Formats: youtube.FormatList{
					{MimeType: "video/mp4", AudioChannels: 0},
					{MimeType: "audio/webm", AudioChannels: 2},
				},
			},
		},
		playlists: map[string]*youtube.Playlist{
			"https://www.youtube.com/playlist?list=PL1": {
				Title: "Mix",
				Videos: []*youtube.PlaylistEntry{
					{ID: "aaaaaaaaaaa", Title: "one"},
					{ID: "bbbbbbbbbbb", Title: "two"},
				},
			},
			"https://www.youtube.com/playlist?list=EMPTY": {Title: "Empty"},
		},
		streamURL: "https://cdn.example.com/stream",
	}
	s := &fakeSearcher{results: map[string]string{"never gonna": videoURL}}
	var local *LocalSource
	if mediaDir != "" {
		local = NewLocalSource(mediaDir)
	}
	return NewDispatcher(NewYouTubeSource(yt), local, s), s
}

func TestLoad_YouTubeVideo(t *testing.T) {
	d, _ := newTestDispatcher(t, "")
	out, ok := d.Load(context.Background(), videoURL).(resolver.SingleTrack)
	if !ok {
		t.Fatalf("expected SingleTrack")
	}
	if out.Track.Title != "Never Gonna" || out.Track.Source != audio.SourceYouTube || out.Track.Reference != videoURL {
		t.Fatalf("unexpected track: %+v", out.Track)
	}
}

func TestLoad_YouTubePlaylist(t *testing.T) {
	d, _ := newTestDispatcher(t, "")
	out, ok := d.Load(context.Background(), "https://www.youtube.com/playlist?list=PL1").(resolver.Playlist)
	if !ok {
		t.Fatalf("expected Playlist")
	}
	if out.Name != "Mix" || len(out.Tracks) != 2 || out.Tracks[0].Title != "one" || out.Tracks[1].Title != "two" {
		t.Fatalf("unexpected playlist: %+v", out)
	}
}

func TestLoad_EmptyPlaylistIsNoMatches(t *testing.T) {
	d, _ := newTestDispatcher(t, "")
	if _, ok := d.Load(context.Background(), "https://www.youtube.com/playlist?list=EMPTY").(resolver.NoMatches); !ok {
		t.Fatalf("expected NoMatches for empty playlist")
	}
}

func TestLoad_YouTubeErrorIsLoadFailed(t *testing.T) {
	d, _ := newTestDispatcher(t, "")
	out, ok := d.Load(context.Background(), "https://youtu.be/zzzzzzzzzzz").(resolver.LoadFailed)
	if !ok || out.Reason == "" {
		t.Fatalf("expected LoadFailed with a reason, got %+v", out)
	}
}

func TestLoad_SearchTerm(t *testing.T) {
	d, s := newTestDispatcher(t, "")
	out, ok := d.Load(context.Background(), "  never gonna ").(resolver.SingleTrack)
	if !ok || out.Track.Title != "Never Gonna" {
		t.Fatalf("expected search to resolve the video, got %+v", out)
	}
	if len(s.queries) != 1 || s.queries[0] != "never gonna" {
		t.Fatalf("unexpected queries: %v", s.queries)
	}

	if _, ok := d.Load(context.Background(), "nothing like this").(resolver.NoMatches); !ok {
		t.Fatalf("expected NoMatches for empty search")
	}
	if _, ok := d.Load(context.Background(), "   ").(resolver.NoMatches); !ok {
		t.Fatalf("expected NoMatches for blank reference")
	}
}

func TestLoad_DirectURL(t *testing.T) {
	d, _ := newTestDispatcher(t, "")
	ref := "https://radio.example.com/live.mp3"
	out, ok := d.Load(context.Background(), ref).(resolver.SingleTrack)
	if !ok || out.Track.Title != ref || out.Track.StreamURL != ref || out.Track.Source != audio.SourceHTTP {
		t.Fatalf("unexpected direct track: %+v", out)
	}
}

func TestLoad_LocalFileStaysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "intro.mp3"), []byte("x"), 0o600); err != nil {
		t.Fatalf("failed to write media file: %v", err)
	}
	d, s := newTestDispatcher(t, dir)

	out, ok := d.Load(context.Background(), "intro.mp3").(resolver.SingleTrack)
	if !ok || out.Track.Title != "intro" || out.Track.StreamURL != filepath.Join(dir, "intro.mp3") {
		t.Fatalf("unexpected local track: %+v", out)
	}

	// Escaping the root falls through to search.
	if _, ok := d.Load(context.Background(), "../../etc/passwd").(resolver.NoMatches); !ok {
		t.Fatalf("expected traversal outside root to find nothing")
	}
	if len(s.queries) != 1 {
		t.Fatalf("expected traversal to be treated as a search, got %v", s.queries)
	}
}

func TestLocate(t *testing.T) {
	d, _ := newTestDispatcher(t, "")
	got, err := d.Locate(context.Background(), &audio.Track{Reference: videoURL, Source: audio.SourceYouTube})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cdn.example.com/stream?itag=audio/webm" {
		t.Fatalf("expected the audio format stream, got %q", got)
	}

	got, err = d.Locate(context.Background(), &audio.Track{StreamURL: "/music/a.mp3", Source: audio.SourceLocal})
	if err != nil || got != "/music/a.mp3" {
		t.Fatalf("unexpected local locate: %q %v", got, err)
	}
	if _, err := d.Locate(context.Background(), &audio.Track{Title: "x"}); err == nil {
		t.Fatalf("expected error for track without stream")
	}
}

func TestIsPlaylistURL(t *testing.T) {
	cases := map[string]bool{
		"https://www.youtube.com/playlist?list=PL1":            true,
		"https://www.youtube.com/watch?list=PL1":               true,
		"https://www.youtube.com/watch?v=abcdefghijk&list=PL1": false,
		"https://www.youtube.com/watch?v=abcdefghijk":          false,
		"https://youtu.be/abcdefghijk":                         false,
	}
	for in, want := range cases {
		if got := isPlaylistURL(in); got != want {
			t.Fatalf("isPlaylistURL(%q) = %v, want %v", in, got, want)
		}
	}
}

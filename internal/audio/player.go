package audio

// Track is a resolved, playable item. Tracks are compared by identity, so the
// same reference enqueued twice yields two distinct tracks.
type Track struct {
	Title     string
	Reference string
	Source    string
	StreamURL string
}

const (
	SourceYouTube = "youtube"
	SourceLocal   = "local"
	SourceHTTP    = "http"
)

// FrameProvider hands out 20ms opus frames to the guild's voice connection.
type FrameProvider interface {
	ProvideFrame() ([]byte, bool)
}

type Player interface {
	FrameProvider
	Play(track *Track)
	Stop()
	SetPaused(paused bool)
	IsPaused() bool
	Volume() int
	SetVolume(volume int)
	CurrentTrack() *Track
	// OnTrackFinished registers the callback fired when a track ends on its
	// own or fails to open. Replacing or stopping a track does not fire it.
	OnTrackFinished(fn func(ended *Track))
}

type PlayerFactory func() Player

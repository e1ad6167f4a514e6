package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/foxseedlab/jukebox/internal/audio"
)

const frameBufferSize = 16

// PCMSource opens a track as raw 48kHz stereo s16le PCM.
type PCMSource interface {
	Open(ctx context.Context, track *audio.Track) (io.ReadCloser, error)
}

type FrameEncoder interface {
	Encode(pcm []int16) ([]byte, error)
}

type EncoderFactory func() (FrameEncoder, error)

// StreamPlayer decodes one track at a time into opus frames that the voice
// connection pulls through ProvideFrame.
type StreamPlayer struct {
	source     PCMSource
	newEncoder EncoderFactory

	mu         sync.Mutex
	current    *audio.Track
	frames     chan []byte
	cancel     context.CancelFunc
	paused     bool
	volume     int
	onFinished func(*audio.Track)
}

func NewStreamPlayer(source PCMSource, newEncoder EncoderFactory) *StreamPlayer {
	return &StreamPlayer{
		source:     source,
		newEncoder: newEncoder,
		volume:     100,
	}
}

func (p *StreamPlayer) Play(track *audio.Track) {
	p.mu.Lock()
	p.stopLocked()
	ctx, cancel := context.WithCancel(context.Background())
	frames := make(chan []byte, frameBufferSize)
	p.current, p.frames, p.cancel = track, frames, cancel
	p.mu.Unlock()

	go p.decode(ctx, track, frames)
}

func (p *StreamPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *StreamPlayer) stopLocked() {
	if p.cancel != nil {
		p.cancel()
	}
	p.current, p.frames, p.cancel = nil, nil, nil
}

// ProvideFrame returns the next frame. When the stream is exhausted the
// finished callback fires once, outside the lock.
func (p *StreamPlayer) ProvideFrame() ([]byte, bool) {
	p.mu.Lock()
	if p.paused || p.frames == nil {
		p.mu.Unlock()
		return nil, false
	}
	select {
	case frame, ok := <-p.frames:
		if ok {
			p.mu.Unlock()
			return frame, true
		}
	default:
		p.mu.Unlock()
		return nil, false
	}

	ended := p.current
	p.stopLocked()
	fn := p.onFinished
	p.mu.Unlock()
	if fn != nil && ended != nil {
		go fn(ended)
	}
	return nil, false
}

func (p *StreamPlayer) decode(ctx context.Context, track *audio.Track, frames chan<- []byte) {
	defer close(frames)

	rc, err := p.source.Open(ctx, track)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("failed to open track stream", "error", err, "title", track.Title, "reference", track.Reference)
		}
		return
	}
	defer rc.Close()

	enc, err := p.newEncoder()
	if err != nil {
		slog.Error("failed to create frame encoder", "error", err)
		return
	}

	buf := make([]byte, frameBytes)
	samples := make([]int16, samplesPerFrame)
	for {
		if _, err := io.ReadFull(rc, buf); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) && ctx.Err() == nil {
				slog.Warn("track stream read failed", "error", err, "title", track.Title)
			}
			return
		}
		decodePCM(buf, samples)
		applyVolume(samples, p.Volume())
		frame, err := enc.Encode(samples)
		if err != nil {
			slog.Error("failed to encode frame", "error", err, "title", track.Title)
			return
		}
		select {
		case frames <- frame:
		case <-ctx.Done():
			return
		}
	}
}

func (p *StreamPlayer) SetPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = paused
}

func (p *StreamPlayer) IsPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *StreamPlayer) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *StreamPlayer) SetVolume(volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = volume
}

func (p *StreamPlayer) CurrentTrack() *audio.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *StreamPlayer) OnTrackFinished(fn func(ended *audio.Track)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onFinished = fn
}

//go:build opus

package audio

import (
	"fmt"

	"github.com/hraban/opus"
)

const maxOpusFrameBytes = 4000

type opusEncoder struct {
	enc *opus.Encoder
	buf []byte
}

// NewOpusEncoder returns a 48kHz stereo music encoder.
func NewOpusEncoder() (FrameEncoder, error) {
	enc, err := opus.NewEncoder(sampleRate, channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}
	if err := enc.SetBitrate(bitrate); err != nil {
		return nil, fmt.Errorf("failed to set opus bitrate: %w", err)
	}
	return &opusEncoder{enc: enc, buf: make([]byte, maxOpusFrameBytes)}, nil
}

func (e *opusEncoder) Encode(pcm []int16) ([]byte, error) {
	n, err := e.enc.Encode(pcm, e.buf)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, e.buf[:n])
	return out, nil
}

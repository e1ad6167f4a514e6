//go:build !opus

package audio

import "errors"

var errOpusUnavailable = errors.New("opus encoding unavailable: build with -tags opus")

func NewOpusEncoder() (FrameEncoder, error) {
	return nil, errOpusUnavailable
}

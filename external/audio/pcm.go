package audio

import (
	"encoding/binary"
	"math"
)

const (
	sampleRate      = 48000
	channels        = 2
	frameSizeMs     = 20
	samplesPerFrame = sampleRate * frameSizeMs * channels / 1000
	frameBytes      = samplesPerFrame * 2
	bitrate         = 96000
)

// decodePCM reads little-endian s16 samples into dst.
func decodePCM(src []byte, dst []int16) {
	for i := range dst {
		dst[i] = int16(binary.LittleEndian.Uint16(src[i*2:]))
	}
}

// applyVolume scales samples by volume/100, clamping to the int16 range.
func applyVolume(samples []int16, volume int) {
	if volume == 100 {
		return
	}
	for i, s := range samples {
		v := int32(s) * int32(volume) / 100
		if v > math.MaxInt16 {
			v = math.MaxInt16
		} else if v < math.MinInt16 {
			v = math.MinInt16
		}
		samples[i] = int16(v)
	}
}

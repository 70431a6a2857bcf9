package tools

import (
	"encoding/binary"
	"time"
)

func FrameSamples(duration time.Duration, rate, channels int) int {
	return int(duration.Seconds() * float64(channels) * float64(rate))
}

// PutSamples encodes int16 samples as little-endian PCM into dst, which must
// hold 2*len(samples) bytes.
func PutSamples(dst []byte, samples []int16) {
	for i, s := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(s))
	}
}

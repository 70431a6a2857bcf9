package tools

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameSamples(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		rate     int
		channels int
		expected int
	}{
		{
			name:     "Mono at 16kHz for one 1024 sample frame",
			duration: 64 * time.Millisecond,
			rate:     16000,
			channels: 1,
			expected: 1024,
		},
		{
			name:     "Mono at 24kHz for 100ms",
			duration: 100 * time.Millisecond,
			rate:     24000,
			channels: 1,
			expected: 2400,
		},
		{
			name:     "Basic stereo at 48kHz for 120ms",
			duration: 120 * time.Millisecond,
			rate:     48000,
			channels: 2,
			expected: 11520, // 0.12s * 48000 * 2 = 11520
		},
		{
			name:     "Zero duration",
			duration: 0,
			rate:     16000,
			channels: 1,
			expected: 0,
		},
		{
			name:     "Zero channels",
			duration: time.Second,
			rate:     16000,
			channels: 0,
			expected: 0,
		},
		{
			name:     "Zero rate",
			duration: time.Second,
			rate:     0,
			channels: 1,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FrameSamples(tt.duration, tt.rate, tt.channels)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPutSamples(t *testing.T) {
	dst := make([]byte, 6)
	PutSamples(dst, []int16{1, -1, 0x0102})
	assert.Equal(t, []byte{0x01, 0x00, 0xff, 0xff, 0x02, 0x01}, dst)
}

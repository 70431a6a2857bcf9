package live

import "fmt"

const (
	InputSampleRate  = 16000
	OutputSampleRate = 24000
	Channels         = 1
	BytesPerSample   = 2 // signed 16-bit
	FrameSize        = 1024
)

// AudioFormat describes raw little-endian PCM.
type AudioFormat struct {
	SampleRate     int
	Channels       int
	BytesPerSample int
}

var (
	InputFormat  = AudioFormat{SampleRate: InputSampleRate, Channels: Channels, BytesPerSample: BytesPerSample}
	OutputFormat = AudioFormat{SampleRate: OutputSampleRate, Channels: Channels, BytesPerSample: BytesPerSample}
)

func (f AudioFormat) MIMEType() string {
	return fmt.Sprintf("audio/pcm;rate=%d", f.SampleRate)
}

// FrameBytes is the byte length of a frame holding samples samples per channel.
func (f AudioFormat) FrameBytes(samples int) int {
	return samples * f.Channels * f.BytesPerSample
}

// AudioFrame is one buffer read from the input device or received from the
// session. It is not retained after it has been forwarded or played.
type AudioFrame struct {
	Data   []byte
	Format AudioFormat
}

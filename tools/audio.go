package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	live "github.com/ayam04/game-rec-live"
	"github.com/ayam04/game-rec-live/shared"
	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"
)

// InputStream delivers fixed-size PCM frames. Read may return a full frame
// together with shared.ErrInputOverflowed.
type InputStream interface {
	Read(ctx context.Context) ([]byte, error)
	Close() error
}

type OutputStream interface {
	io.Writer
	Close() error
}

type InputOptions struct {
	Format    live.AudioFormat
	FrameSize int // samples per channel
}

type OutputOptions struct {
	Format live.AudioFormat
	// Device side buffer handed to oto.
	DeviceBuffer time.Duration
	// Capacity of the AudioBuffer in front of the player.
	QueueDuration time.Duration
}

type SystemOptions struct {
	Input  InputOptions
	Output OutputOptions
}

// AudioSystem owns the audio back-ends for the whole process. It is built
// once at startup and torn down with an explicit Terminate. At most one
// input and one output stream are open at a time.
type AudioSystem struct {
	logger shared.LoggerAdapter
	opts   SystemOptions

	mu         sync.Mutex
	terminated bool
	input      *Microphone
	output     *Speaker
	otoCtx     *oto.Context
	otoRate    int
}

func NewAudioSystem(logger shared.LoggerAdapter, opts SystemOptions) (*AudioSystem, error) {
	if logger == nil {
		return nil, shared.ErrNoLogger
	}
	if opts.Input.FrameSize <= 0 {
		return nil, fmt.Errorf("invalid input frame size %d", opts.Input.FrameSize)
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	return &AudioSystem{logger: logger, opts: opts}, nil
}

// OpenInput opens and starts the default input device.
func (a *AudioSystem) OpenInput() (InputStream, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.terminated {
		return nil, &shared.SetupError{Stage: "input", Err: shared.ErrAudioTerminated}
	}
	if a.input != nil {
		return nil, &shared.SetupError{Stage: "input", Err: shared.ErrDeviceBusy}
	}
	mic, err := openMicrophone(a.logger, a.opts.Input, a.releaseInput)
	if err != nil {
		return nil, &shared.SetupError{Stage: "input", Err: err}
	}
	a.input = mic
	return mic, nil
}

// OpenOutput starts an oto player on the default output device.
func (a *AudioSystem) OpenOutput() (OutputStream, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.terminated {
		return nil, &shared.SetupError{Stage: "output", Err: shared.ErrAudioTerminated}
	}
	if a.output != nil {
		return nil, &shared.SetupError{Stage: "output", Err: shared.ErrDeviceBusy}
	}
	opts := a.opts.Output
	if a.otoCtx == nil {
		otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   opts.Format.SampleRate,
			ChannelCount: opts.Format.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   opts.DeviceBuffer,
		})
		if err != nil {
			return nil, &shared.SetupError{Stage: "output", Err: fmt.Errorf("creating oto context: %w", err)}
		}
		<-ready
		a.otoCtx = otoCtx
		a.otoRate = opts.Format.SampleRate
	} else if a.otoRate != opts.Format.SampleRate {
		// oto allows one context per process
		return nil, &shared.SetupError{
			Stage: "output",
			Err:   fmt.Errorf("output already bound to %d Hz", a.otoRate),
		}
	}
	spk := newSpeaker(a.logger, a.otoCtx, opts, a.releaseOutput)
	a.output = spk
	return spk, nil
}

func (a *AudioSystem) releaseInput() {
	a.mu.Lock()
	a.input = nil
	a.mu.Unlock()
}

func (a *AudioSystem) releaseOutput() {
	a.mu.Lock()
	a.output = nil
	a.mu.Unlock()
}

// Terminate closes any stream still open and shuts PortAudio down. Calling
// it again is a no-op.
func (a *AudioSystem) Terminate() error {
	a.mu.Lock()
	if a.terminated {
		a.mu.Unlock()
		return nil
	}
	a.terminated = true
	in, out := a.input, a.output
	a.mu.Unlock()

	var errs []error
	if in != nil {
		errs = append(errs, in.Close())
	}
	if out != nil {
		errs = append(errs, out.Close())
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("terminating portaudio: %w", err))
	}
	return errors.Join(errs...)
}

// Microphone is a blocking PortAudio capture stream.
type Microphone struct {
	logger  shared.LoggerAdapter
	device  string
	stream  *portaudio.Stream
	samples []int16
	release func()

	mu     sync.Mutex
	active bool
	closed bool
}

var _ InputStream = (*Microphone)(nil)

func openMicrophone(logger shared.LoggerAdapter, opts InputOptions, release func()) (*Microphone, error) {
	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, fmt.Errorf("getting default input device: %w", err)
	}
	logger = logger.With(zap.String("device", dev.Name))
	params := portaudio.LowLatencyParameters(dev, nil)
	params.Input.Channels = opts.Format.Channels
	params.SampleRate = float64(opts.Format.SampleRate)
	params.FramesPerBuffer = opts.FrameSize

	m := &Microphone{
		logger:  logger,
		device:  dev.Name,
		samples: make([]int16, opts.FrameSize*opts.Format.Channels),
		release: release,
	}
	m.stream, err = portaudio.OpenStream(params, m.samples)
	if err != nil {
		return nil, fmt.Errorf("opening input stream on %q: %w", dev.Name, err)
	}
	if err := m.stream.Start(); err != nil {
		_ = m.stream.Close()
		return nil, fmt.Errorf("starting input stream on %q: %w", dev.Name, err)
	}
	m.active = true
	logger.Info(
		"microphone opened",
		zap.Int("sampleRate", opts.Format.SampleRate),
		zap.Int("channels", opts.Format.Channels),
		zap.Int("frameSize", opts.FrameSize),
	)
	return m, nil
}

func (m *Microphone) DeviceName() string {
	return m.device
}

// Read blocks for exactly one frame. The returned slice is a fresh copy.
func (m *Microphone) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, shared.ErrDeviceClosed
	}
	err := m.stream.Read()
	if err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, fmt.Errorf("reading input stream: %w", err)
	}
	frame := make([]byte, len(m.samples)*2)
	PutSamples(frame, m.samples)
	if err != nil {
		return frame, shared.ErrInputOverflowed
	}
	return frame, nil
}

// Close stops and closes the stream. Safe to call more than once.
func (m *Microphone) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	var errs []error
	if m.active {
		if err := m.stream.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping input stream: %w", err))
		}
		m.active = false
	}
	if err := m.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing input stream: %w", err))
	}
	m.closed = true
	if m.release != nil {
		m.release()
	}
	m.logger.Info("microphone closed")
	return errors.Join(errs...)
}

// Speaker plays PCM through oto. Write blocks while the queue is full.
type Speaker struct {
	logger  shared.LoggerAdapter
	buffer  *AudioBuffer
	player  *oto.Player
	release func()

	once     sync.Once
	closeErr error
}

var _ OutputStream = (*Speaker)(nil)

func newSpeaker(logger shared.LoggerAdapter, otoCtx *oto.Context, opts OutputOptions, release func()) *Speaker {
	f := opts.Format
	queue := FrameSamples(opts.QueueDuration, f.SampleRate, f.Channels) * f.BytesPerSample
	if queue <= 0 {
		queue = f.FrameBytes(f.SampleRate) // one second
	}
	s := &Speaker{
		logger:  logger,
		buffer:  NewAudioBuffer(queue),
		release: release,
	}
	s.player = otoCtx.NewPlayer(s.buffer)
	s.player.Play()
	logger.Info(
		"speaker opened",
		zap.Int("sampleRate", f.SampleRate),
		zap.Int("channels", f.Channels),
		zap.Int("queueBytes", queue),
	)
	return s
}

func (s *Speaker) Write(p []byte) (int, error) {
	n, err := s.buffer.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing output stream: %w", err)
	}
	return n, nil
}

func (s *Speaker) Close() error {
	s.once.Do(func() {
		_ = s.buffer.Close()
		if err := s.player.Close(); err != nil {
			s.closeErr = fmt.Errorf("closing player: %w", err)
		}
		if s.release != nil {
			s.release()
		}
		s.logger.Info("speaker closed")
	})
	return s.closeErr
}

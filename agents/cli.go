package agents

import (
	"context"
	"errors"
	"sync"

	live "github.com/ayam04/game-rec-live"
	"github.com/ayam04/game-rec-live/shared"
	"github.com/ayam04/game-rec-live/tools"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// Devices opens the audio streams. *tools.AudioSystem implements it.
type Devices interface {
	OpenInput() (tools.InputStream, error)
	OpenOutput() (tools.OutputStream, error)
}

// Connector opens live sessions. *live.Client implements it.
type Connector interface {
	Connect(ctx context.Context, cfg live.SessionConfig) (live.Session, error)
}

type namedDevice interface {
	DeviceName() string
}

// closeOnceSession makes sure the transport sees a single Close no matter
// how many exit paths reach it.
type closeOnceSession struct {
	live.Session
	once sync.Once
	err  error
}

func (s *closeOnceSession) Close() error {
	s.once.Do(func() { s.err = s.Session.Close() })
	return s.err
}

// closeOnceOutput lets the pump and the cleanup both close the speaker.
type closeOnceOutput struct {
	tools.OutputStream
	once sync.Once
	err  error
}

func (o *closeOnceOutput) Close() error {
	o.once.Do(func() { o.err = o.OutputStream.Close() })
	return o.err
}

type CLIAgent struct {
	logger    shared.LoggerAdapter
	printer   *shared.Printer
	devices   Devices
	connector Connector
	cfg       live.SessionConfig
	pumpOpts  PumpOptions

	mu      sync.Mutex
	running bool
	input   tools.InputStream
	output  tools.OutputStream
	session *closeOnceSession
	cancel  context.CancelFunc
	done    chan struct{}
	err     error

	cleanupOnce sync.Once
}

func NewCLIAgent(
	logger shared.LoggerAdapter,
	printer *shared.Printer,
	devices Devices,
	connector Connector,
	cfg live.SessionConfig,
	pumpOpts PumpOptions,
) (*CLIAgent, error) {
	if logger == nil {
		return nil, shared.ErrNoLogger
	}
	if printer == nil {
		return nil, shared.ErrNoPrinter
	}
	if devices == nil || connector == nil {
		return nil, shared.ErrNoConfig
	}
	if cfg.Model == "" {
		return nil, shared.ErrNoModel
	}
	return &CLIAgent{
		logger:    logger,
		printer:   printer,
		devices:   devices,
		connector: connector,
		cfg:       cfg,
		pumpOpts:  pumpOpts,
		done:      make(chan struct{}),
	}, nil
}

// Spawn opens the microphone, the speaker and the session, in that order,
// then starts the pump in the background. A setup failure is returned
// before any loop starts, after whatever was opened has been closed.
func (a *CLIAgent) Spawn(ctx context.Context) (<-chan struct{}, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return nil, shared.ErrAgentRunning
	}
	a.running = true
	a.logger.Info("spawning CLI agent")

	if err := a.setup(ctx); err != nil {
		a.cleanup()
		a.err = err
		close(a.done)
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	pump := NewPump(a.logger, a.printer, a.session, a.input, a.output, a.pumpOpts)
	go func() {
		defer close(a.done)
		defer cancel()
		a.printf("🚀 Live session with %s started. Press Ctrl+C to stop.", a.cfg.Model)
		err := pump.Run(runCtx)
		a.cleanup()
		a.mu.Lock()
		a.err = err
		a.mu.Unlock()
		a.logger.Info("CLI agent finished", zap.NamedError("result", err))
	}()
	return a.done, nil
}

func (a *CLIAgent) setup(ctx context.Context) error {
	a.printf("🎤 Accessing microphone...")
	input, err := a.devices.OpenInput()
	if err != nil {
		a.logger.Error("opening input device", err)
		a.printf("❌ Error setting up microphone: %v", err)
		return err
	}
	a.input = input
	if nd, ok := input.(namedDevice); ok {
		a.printf("🎤 Using microphone: %s", nd.DeviceName())
	}
	a.printf("🎤 Microphone setup complete")

	output, err := a.devices.OpenOutput()
	if err != nil {
		a.logger.Error("opening output device", err)
		a.printf("❌ Error setting up speaker: %v", err)
		return err
	}
	a.output = &closeOnceOutput{OutputStream: output}
	a.printf("🔊 Speaker setup complete")

	a.printSessionConfig()
	session, err := a.connector.Connect(ctx, a.cfg)
	if err != nil {
		a.logger.Error("connecting session", err)
		a.printf("❌ Unable to connect to %s: %v", a.cfg.Model, err)
		return err
	}
	a.session = &closeOnceSession{Session: session}
	return nil
}

func (a *CLIAgent) printSessionConfig() {
	a.printf("🚀 Starting audio session with model: %s", a.cfg.Model)
	if a.cfg.Voice != "" {
		a.printf("🎵 Using voice: %s", a.cfg.Voice)
	}
	if a.cfg.InputTranscription || a.cfg.OutputTranscription {
		a.printf("📝 Transcription enabled")
	}
	if a.cfg.AffectiveDialog {
		if live.IsNativeAudioModel(a.cfg.Model) {
			a.printf("😊 Affective dialog enabled")
		} else {
			a.printf("😐 Affective dialog requested but %s does not support it", a.cfg.Model)
		}
	}
	yamlBytes, err := yaml.Marshal(a.cfg)
	if err != nil {
		a.logger.Error("marshaling session config to yaml", err)
		return
	}
	a.logger.Debug("session config", zap.ByteString("yaml", yamlBytes))
	if err := a.printer.Writeln("📋 Session Config", 0); err != nil {
		a.logger.Error("printing session config message", err)
	}
	if err := a.printer.Write(string(yamlBytes), 1); err != nil {
		a.logger.Error("printing session config", err)
	}
	if err := a.printer.Writeln("", 0); err != nil {
		a.logger.Error("printing session config", err)
	}
}

// cleanup releases the session and both devices. It runs once; failures
// are logged as warnings and never returned.
func (a *CLIAgent) cleanup() {
	a.cleanupOnce.Do(func() {
		if a.session != nil {
			if err := a.session.Close(); err != nil {
				a.logger.Warn("closing session", zap.Error(err))
			}
		}
		if a.input != nil {
			if err := a.input.Close(); err != nil {
				a.logger.Warn("closing input device", zap.Error(err))
				a.printf("⚠️  Error during cleanup: %v", err)
			}
		}
		if a.output != nil {
			if err := a.output.Close(); err != nil {
				a.logger.Warn("closing output device", zap.Error(err))
				a.printf("⚠️  Error during cleanup: %v", err)
			}
		}
		a.logger.Info("cleanup complete")
	})
}

func (a *CLIAgent) Done() <-chan struct{} {
	return a.done
}

// Err is the run result once Done is closed: nil after an interrupt or a
// normal end, a *shared.SetupError or *shared.StreamError otherwise.
func (a *CLIAgent) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

// Close stops a running agent and waits for cleanup. Safe to call more than
// once and before Spawn.
func (a *CLIAgent) Close() error {
	a.mu.Lock()
	cancel, running := a.cancel, a.running
	a.mu.Unlock()
	if !running {
		return nil
	}
	if cancel != nil {
		cancel()
	}
	<-a.done
	err := a.Err()
	var streamErr *shared.StreamError
	if errors.As(err, &streamErr) {
		return err
	}
	return nil
}

func (a *CLIAgent) printf(format string, args ...any) {
	if err := a.printer.Printf(0, format, args...); err != nil {
		a.logger.Error("printing message", err)
	}
}

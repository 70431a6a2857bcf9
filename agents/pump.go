package agents

import (
	"context"
	"errors"
	"fmt"
	"io"

	live "github.com/ayam04/game-rec-live"
	"github.com/ayam04/game-rec-live/shared"
	"github.com/ayam04/game-rec-live/tools"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	loopUplink   = "uplink"
	loopDownlink = "downlink"
)

var errLoopEnded = errors.New("pump loop ended")

// step is the outcome of one loop iteration.
type step struct {
	stop bool
	err  error
}

var proceed = step{}

func stop(err error) step {
	return step{stop: true, err: err}
}

type PumpOptions struct {
	InputFormat      live.AudioFormat
	FrameSize        int
	SuppressOverflow bool
}

// Pump moves audio between the devices and an open session. The session and
// the output are borrowed; the pump closes both when it stops, so their Close
// must be idempotent.
type Pump struct {
	logger  shared.LoggerAdapter
	printer *shared.Printer
	session live.Session
	input   tools.InputStream
	output  tools.OutputStream
	opts    PumpOptions
}

func NewPump(
	logger shared.LoggerAdapter,
	printer *shared.Printer,
	session live.Session,
	input tools.InputStream,
	output tools.OutputStream,
	opts PumpOptions,
) *Pump {
	return &Pump{
		logger:  logger,
		printer: printer,
		session: session,
		input:   input,
		output:  output,
		opts:    opts,
	}
}

// Run drives both loops until one of them ends or ctx is cancelled. The
// first loop to end cancels the other. It returns a *shared.StreamError for
// the first loop failure and nil on cancellation.
func (p *Pump) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	g := new(errgroup.Group)
	g.Go(func() error {
		defer cancel(fmt.Errorf("%s: %w", loopUplink, errLoopEnded))
		return p.drive(ctx, loopUplink, p.uplink)
	})
	g.Go(func() error {
		defer cancel(fmt.Errorf("%s: %w", loopDownlink, errLoopEnded))
		return p.drive(ctx, loopDownlink, p.downlink)
	})
	g.Go(func() error {
		// unblocks a pending Receive and a Write stuck on a full queue
		<-ctx.Done()
		p.logger.Debug("pump scope cancelled", zap.NamedError("cause", context.Cause(ctx)))
		if err := p.session.Close(); err != nil {
			p.logger.Warn("closing session on pump exit", zap.Error(err))
		}
		if err := p.output.Close(); err != nil {
			p.logger.Warn("closing output on pump exit", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

func (p *Pump) drive(ctx context.Context, name string, iterate func(context.Context) step) error {
	logger := p.logger.With(zap.String("loop", name))
	logger.Info("loop started")
	n := 0
	for {
		if ctx.Err() != nil {
			logger.Info("loop cancelled", zap.Int("iterations", n))
			return nil
		}
		s := iterate(ctx)
		if !s.stop {
			n++
			continue
		}
		// errors caused by the teardown itself are not failures
		if s.err == nil || ctx.Err() != nil {
			logger.Info("loop finished", zap.Int("iterations", n))
			return nil
		}
		logger.Error("loop failed", s.err, zap.Int("iterations", n))
		return &shared.StreamError{Loop: name, Err: s.err}
	}
}

func (p *Pump) uplink(ctx context.Context) step {
	data, err := p.input.Read(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrInputOverflowed) || !p.opts.SuppressOverflow {
			return stop(fmt.Errorf("reading input: %w", err))
		}
		p.logger.Debug("input overflow suppressed")
	}
	if want := p.opts.InputFormat.FrameBytes(p.opts.FrameSize); len(data) != want {
		p.logger.Warn(
			"dropping frame",
			zap.Error(shared.ErrPartialFrame),
			zap.Int("bytes", len(data)),
			zap.Int("want", want),
		)
		return proceed
	}
	frame := live.AudioFrame{Data: data, Format: p.opts.InputFormat}
	if err := p.session.Send(ctx, frame); err != nil {
		return stop(fmt.Errorf("sending frame: %w", err))
	}
	return proceed
}

func (p *Pump) downlink(ctx context.Context) step {
	resp, err := p.session.Receive(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.logger.Info("session ended by server")
			return stop(nil)
		}
		return stop(fmt.Errorf("receiving response: %w", err))
	}
	if resp.HasAudio() {
		if _, err := p.output.Write(resp.Audio); err != nil {
			return stop(fmt.Errorf("writing output: %w", err))
		}
	}
	if resp.OutputTranscript != "" {
		p.say("🎙️ Gemini said: %s", resp.OutputTranscript)
	}
	if resp.InputTranscript != "" {
		p.say("👤 You said: %s", resp.InputTranscript)
	}
	if resp.Text != "" {
		p.say("💬 %s", resp.Text)
	}
	if resp.Interrupted {
		p.logger.Debug("model turn interrupted")
	}
	if resp.TurnComplete {
		p.logger.Debug("model turn complete")
	}
	if resp.GoAway {
		p.logger.Warn("server is about to close the session")
	}
	return proceed
}

func (p *Pump) say(format string, args ...any) {
	if p.printer == nil {
		return
	}
	if err := p.printer.Printf(0, format, args...); err != nil {
		p.logger.Error("printing transcript", err)
	}
}

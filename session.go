package live

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/ayam04/game-rec-live/shared"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Session is one open duplex connection. Send and Receive may be called
// concurrently from different goroutines; Close is idempotent.
type Session interface {
	Send(ctx context.Context, frame AudioFrame) error
	Receive(ctx context.Context) (*Response, error)
	Close() error
}

// liveConn is the subset of *genai.Session the wrapper drives.
type liveConn interface {
	SendRealtimeInput(input genai.LiveRealtimeInput) error
	Receive() (*genai.LiveServerMessage, error)
	Close() error
}

type session struct {
	logger shared.LoggerAdapter
	conn   liveConn

	// Close never waits for an in-flight Send; closing the transport is
	// what unblocks it.
	closed   atomic.Bool
	closeErr error
	once     sync.Once
}

var _ Session = (*session)(nil)

func newSession(logger shared.LoggerAdapter, conn liveConn) *session {
	return &session{logger: logger, conn: conn}
}

func (s *session) Send(ctx context.Context, frame AudioFrame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return shared.ErrSessionClosed
	}
	err := s.conn.SendRealtimeInput(genai.LiveRealtimeInput{
		Audio: &genai.Blob{Data: frame.Data, MIMEType: frame.Format.MIMEType()},
	})
	if err != nil {
		if s.closed.Load() {
			return shared.ErrSessionClosed
		}
		return fmt.Errorf("sending realtime input: %w", err)
	}
	return nil
}

func (s *session) Receive(ctx context.Context) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, shared.ErrSessionClosed
	}
	msg, err := s.conn.Receive()
	if err != nil {
		if s.closed.Load() {
			return nil, shared.ErrSessionClosed
		}
		// the server hanging up cleanly ends the stream
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && websocket.IsCloseError(closeErr, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			s.logger.Info("live session closed by server", zap.Error(err))
			return nil, io.EOF
		}
		return nil, fmt.Errorf("receiving server message: %w", err)
	}
	return ResponseFromMessage(msg), nil
}

func (s *session) Close() error {
	s.once.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.conn.Close()
		if s.closeErr != nil {
			s.logger.Warn("closing live session", zap.Error(s.closeErr))
		} else {
			s.logger.Info("live session closed")
		}
	})
	return s.closeErr
}

package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNoLogger        = errors.New("no logger provided")
	ErrNoConfig        = errors.New("no config provided")
	ErrNoAPIKey        = errors.New("no API key provided")
	ErrNoModel         = errors.New("no model provided")
	ErrNoPrinter       = errors.New("no printer provided")
	ErrRequiredEnv     = errors.New("required environment variable is not set")
	ErrSessionClosed   = errors.New("session closed")
	ErrAgentRunning    = errors.New("agent already running")
	ErrDeviceBusy      = errors.New("audio device already open")
	ErrDeviceClosed    = errors.New("audio device closed")
	ErrInputOverflowed = errors.New("input overflowed")
	ErrPartialFrame    = errors.New("partial audio frame")
	ErrAudioTerminated = errors.New("audio system terminated")
)

// SetupError is returned when the run can not start: a device failed to
// open or the session was refused.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// StreamError is returned when one of the pump loops hit an unrecoverable
// I/O error while streaming.
type StreamError struct {
	Loop string
	Err  error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("streaming %s: %v", e.Loop, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

package tools

import (
	"io"
	"sync"

	"github.com/ayam04/game-rec-live/shared"
)

// AudioBuffer is a bounded FIFO of PCM bytes between the downlink and the
// oto player. Write blocks while the buffer is full, Read blocks while it
// is empty. After Close, Write fails and Read drains what is left then
// returns io.EOF.
type AudioBuffer struct {
	buffer []byte
	mu     sync.Mutex
	cond   *sync.Cond
	cap    int
	closed bool
}

var _ io.ReadWriteCloser = (*AudioBuffer)(nil)

func NewAudioBuffer(fixedCap int) *AudioBuffer {
	if fixedCap <= 0 {
		fixedCap = 1
	}
	ab := &AudioBuffer{
		buffer: make([]byte, 0, fixedCap),
		cap:    fixedCap,
	}
	ab.cond = sync.NewCond(&ab.mu)
	return ab
}

func (ab *AudioBuffer) Write(data []byte) (n int, err error) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	for len(data) > 0 {
		for !ab.closed && len(ab.buffer) == ab.cap {
			ab.cond.Wait()
		}
		if ab.closed {
			return n, shared.ErrDeviceClosed
		}
		k := min(ab.cap-len(ab.buffer), len(data))
		ab.buffer = append(ab.buffer, data[:k]...)
		data = data[k:]
		n += k
		ab.cond.Broadcast()
	}
	return n, nil
}

func (ab *AudioBuffer) Read(p []byte) (n int, err error) {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	for len(ab.buffer) == 0 {
		if ab.closed {
			return 0, io.EOF
		}
		ab.cond.Wait()
	}
	n = copy(p, ab.buffer)
	// compact so append never grows past cap
	rest := copy(ab.buffer, ab.buffer[n:])
	ab.buffer = ab.buffer[:rest]
	ab.cond.Broadcast()
	return n, nil
}

func (ab *AudioBuffer) Len() int {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	return len(ab.buffer)
}

func (ab *AudioBuffer) Close() error {
	ab.mu.Lock()
	defer ab.mu.Unlock()
	ab.closed = true
	ab.cond.Broadcast()
	return nil
}

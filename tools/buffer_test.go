package tools

import (
	"io"
	"testing"
	"time"

	"github.com/ayam04/game-rec-live/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioBufferPreservesOrder(t *testing.T) {
	ab := NewAudioBuffer(8)
	n, err := ab.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	_, err = ab.Write([]byte{4, 5})
	require.NoError(t, err)

	p := make([]byte, 4)
	n, err = ab.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, p[:n])
	assert.Equal(t, 1, ab.Len())
}

func TestAudioBufferWriteBlocksUntilRead(t *testing.T) {
	ab := NewAudioBuffer(4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		n, err := ab.Write([]byte{1, 2, 3, 4, 5, 6})
		assert.NoError(t, err)
		assert.Equal(t, 6, n)
	}()

	select {
	case <-done:
		t.Fatal("write larger than capacity returned before any read")
	case <-time.After(50 * time.Millisecond):
	}

	got := make([]byte, 0, 6)
	p := make([]byte, 4)
	for len(got) < 6 {
		n, err := ab.Read(p)
		require.NoError(t, err)
		got = append(got, p[:n]...)
	}
	<-done
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, got)
}

func TestAudioBufferClose(t *testing.T) {
	ab := NewAudioBuffer(2)
	_, err := ab.Write([]byte{1, 2})
	require.NoError(t, err)

	blocked := make(chan error, 1)
	go func() {
		_, err := ab.Write([]byte{3})
		blocked <- err
	}()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, ab.Close())
	assert.ErrorIs(t, <-blocked, shared.ErrDeviceClosed)

	p := make([]byte, 4)
	n, err := ab.Read(p)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, p[:n])
	_, err = ab.Read(p)
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, ab.Close())
}

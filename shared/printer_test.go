package shared

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinterIndentsEveryLine(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPrinter("│  ", NewWriterHook(&buf))
	require.NoError(t, err)

	require.NoError(t, p.Writeln("model: x\nvoice: Kore", 1))
	assert.Equal(t, "│  model: x\n│  voice: Kore\n", buf.String())
}

func TestPrinterWritesToAllHooks(t *testing.T) {
	var a, b bytes.Buffer
	p, err := NewPrinter("", NewWriterHook(&a), NewWriterHook(&b))
	require.NoError(t, err)

	require.NoError(t, p.Printf(0, "👤 You said: %s", "hello"))
	assert.Equal(t, "👤 You said: hello\n", a.String())
	assert.Equal(t, a.String(), b.String())
	assert.NoError(t, p.Close())
}

func TestNewPrinterRejectsMissingHooks(t *testing.T) {
	_, err := NewPrinter("")
	assert.Error(t, err)

	_, err = NewPrinter("", NewWriterHook(nil))
	assert.Error(t, err)
}

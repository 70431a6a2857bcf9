package shared

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

type StringWriteCloser interface {
	io.Closer
	io.StringWriter
}

type WriteCloser struct {
	w io.Writer
	c io.Closer
}

func NewWriteCloser(w io.WriteCloser) StringWriteCloser {
	if w == nil {
		return nil
	}
	return &WriteCloser{w: w, c: w}
}

// NewWriterHook wraps a writer that the printer must not close, such as
// os.Stdout or a test buffer.
func NewWriterHook(w io.Writer) StringWriteCloser {
	if w == nil {
		return nil
	}
	return &WriteCloser{w: w}
}

func (wc *WriteCloser) WriteString(s string) (n int, err error) {
	return io.WriteString(wc.w, s)
}

func (wc *WriteCloser) Close() error {
	if wc.c == nil {
		return nil
	}
	return wc.c.Close()
}

// Printer writes operator-facing lines to every hook, indenting each line
// of a multi-line message.
type Printer struct {
	mu     sync.Mutex
	indStr string
	hooks  []StringWriteCloser
}

func NewPrinter(indentString string, hooks ...StringWriteCloser) (*Printer, error) {
	p := &Printer{
		indStr: indentString,
	}
	if len(hooks) == 0 {
		return nil, errors.New("no hook provided")
	}
	for _, hook := range hooks {
		if hook == nil {
			return nil, errors.New("a nil pointed hook is given")
		}
	}
	p.hooks = hooks
	return p, nil
}

func (p *Printer) Write(s string, ind int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.write(s, ind)
}

func (p *Printer) Writeln(s string, ind int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.write(s, ind); err != nil {
		return err
	}
	for _, hook := range p.hooks {
		if _, err := hook.WriteString("\n"); err != nil {
			return fmt.Errorf("on writing newline to hook: %w", err)
		}
	}
	return nil
}

func (p *Printer) Printf(ind int, format string, args ...any) error {
	return p.Writeln(fmt.Sprintf(format, args...), ind)
}

func (p *Printer) write(s string, ind int) error {
	indent := strings.Repeat(p.indStr, ind)
	firstLine := true
	for line := range strings.SplitSeq(s, "\n") {
		if !firstLine {
			line = "\n" + indent + line
		} else {
			firstLine = false
			line = indent + line
		}
		for _, hook := range p.hooks {
			if _, err := hook.WriteString(line); err != nil {
				return fmt.Errorf("on writing to hook: %w", err)
			}
		}
	}
	return nil
}

func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	for _, hook := range p.hooks {
		if err := hook.Close(); err != nil {
			errs = append(errs, fmt.Errorf("on closing hook: %w", err))
		}
	}
	return errors.Join(errs...)
}

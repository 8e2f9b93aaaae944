package console

import (
	"fmt"
	"io"
)

// WriterConsole is a Surface that prints plain lines to an io.Writer.
type WriterConsole struct {
	w io.Writer
}

// NewWriterConsole returns a new WriterConsole writing to w.
func NewWriterConsole(w io.Writer) *WriterConsole {
	return &WriterConsole{w: w}
}

// Print writes one line.
func (c *WriterConsole) Print(_ Level, text string) error {
	_, err := fmt.Fprintln(c.w, text)
	return err
}

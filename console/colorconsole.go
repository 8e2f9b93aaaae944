package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var levelColors = map[Level]*color.Color{
	LevelError: color.New(color.FgRed),
	LevelWarn:  color.New(color.FgYellow),
	LevelInfo:  color.New(color.FgWhite),
	LevelDebug: color.New(color.FgGreen),
	LevelTrace: color.New(color.FgBlue),
}

// ColorizeTag wraps a level tag in the ANSI color that matches the
// level. It is used by renderers that color lines themselves before
// handing them to a plain surface.
func ColorizeTag(level Level, tag string) string {
	c, ok := levelColors[level]
	if !ok {
		return tag
	}

	return c.Sprint(tag)
}

// ColorConsole is a Surface that colors each whole line according to
// its level. It is the host-native coloring option for terminals.
type ColorConsole struct {
	w io.Writer
}

// NewColorConsole returns a new ColorConsole writing to w.
func NewColorConsole(w io.Writer) *ColorConsole {
	return &ColorConsole{w: w}
}

// Print writes one colored line.
func (c *ColorConsole) Print(level Level, text string) error {
	colored, ok := levelColors[level]
	if !ok {
		_, err := fmt.Fprintln(c.w, text)
		return err
	}

	_, err := colored.Fprintln(c.w, text)
	return err
}

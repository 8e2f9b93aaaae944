package bridge

import (
	"strings"
	"sync/atomic"

	"github.com/sarchlab/tracemark/console"
)

const indentUnit = "  "

// renderer projects events and span transitions onto the console
// surface as leveled, indentation-prefixed lines. Console output is
// best-effort: a failing surface disables further output and never
// stops instrumentation delivery.
type renderer struct {
	surface console.Surface
	cfg     Config

	disabled atomic.Bool
}

func newRenderer(surface console.Surface, cfg Config) *renderer {
	return &renderer{
		surface: surface,
		cfg:     cfg,
	}
}

func (r *renderer) enabled() bool {
	return r.cfg.enableConsole && r.surface != nil && !r.disabled.Load()
}

// line prints one console line with a level tag and an indentation
// prefix of one unit per ancestor span.
func (r *renderer) line(level console.Level, depth int, text string) {
	if !r.enabled() {
		return
	}

	if !level.Passes(r.cfg.levelThreshold) {
		return
	}

	tag := "[" + level.String() + "]"
	if r.cfg.colorMode == ColorANSI {
		tag = console.ColorizeTag(level, tag)
	}

	full := tag + " " + strings.Repeat(indentUnit, depth) + text

	err := r.surface.Print(level, full)
	if err != nil {
		r.disabled.Store(true)
	}
}

func (r *renderer) onEvent(ev EventRecord, depth int, chain string) {
	if !r.enabled() || !ev.Level.Passes(r.cfg.levelThreshold) {
		return
	}

	text := formatFields(ev.Fields)
	if r.cfg.reportSpanNamesInConsole && chain != "" {
		text = chain + " " + text
	}

	r.line(ev.Level, depth, text)
}

func (r *renderer) onSpanEnter(rec *SpanRecord, depth int) {
	if !r.cfg.reportSpanEnterExitInConsole {
		return
	}

	text := "-> " + rec.Name
	if len(rec.Fields) > 0 {
		text += " " + formatFields(rec.Fields)
	}

	r.line(console.LevelTrace, depth, text)
}

func (r *renderer) onSpanExit(rec *SpanRecord, depth int) {
	if !r.cfg.reportSpanEnterExitInConsole {
		return
	}

	r.line(console.LevelTrace, depth, "<- "+rec.Name)
}

// diagnostic reports a protocol violation as a single error-level line.
func (r *renderer) diagnostic(text string) {
	r.line(console.LevelError, 0, text)
}

package bridge

import (
	"fmt"
	"sync/atomic"

	"github.com/sarchlab/tracemark/timeline"
)

// marker projects span activations and event blips onto the timeline
// surface. When the surface fails, the marker degrades to a no-op for
// the rest of the process instead of aborting instrumentation.
type marker struct {
	surface timeline.Surface
	cfg     Config

	disabled   atomic.Bool
	eventCount atomic.Uint64
}

func newMarker(surface timeline.Surface, cfg Config) *marker {
	return &marker{
		surface: surface,
		cfg:     cfg,
	}
}

func (m *marker) enabled() bool {
	return m.cfg.enableTimeline && m.surface != nil && !m.disabled.Load()
}

func (m *marker) decorate(ctx ContextID, name string) string {
	if m.cfg.decorator == nil {
		return name
	}

	return m.cfg.decorator(name, ctx)
}

func (m *marker) mark(ctx ContextID, name string) (timeline.MarkID, bool) {
	id, err := m.surface.Mark(m.decorate(ctx, name))
	if err != nil {
		m.disabled.Store(true)
		return "", false
	}

	return id, true
}

// onEnter emits the start mark for one activation of a span. The mark
// name folds in the span ID and the activation generation, so two open
// spans with the same name, or two activations of the same span, never
// collide.
func (m *marker) onEnter(ctx ContextID, rec *SpanRecord) {
	if !m.enabled() {
		return
	}

	name := fmt.Sprintf("%s@t%s.%d.start", rec.Name, rec.ID, rec.generation)

	id, ok := m.mark(ctx, name)
	if !ok {
		return
	}

	rec.StartMark = id
}

// onExit emits the end mark and the measurement for one activation.
func (m *marker) onExit(ctx ContextID, rec *SpanRecord) {
	if !m.enabled() {
		return
	}

	name := fmt.Sprintf("%s@t%s.%d.end", rec.Name, rec.ID, rec.generation)

	endID, ok := m.mark(ctx, name)
	if !ok {
		return
	}

	label := rec.Name
	if m.cfg.reportFieldsInTimeline && len(rec.Fields) > 0 {
		label += " " + formatFields(rec.Fields)
	}

	err := m.surface.Measure(m.decorate(ctx, label), rec.StartMark, endID)
	if err != nil {
		m.disabled.Store(true)
	}
}

// onEvent emits a zero-length blip so the event shows up in the
// profile. Blip marks are named from a process-wide counter.
func (m *marker) onEvent(ctx ContextID, ev EventRecord) {
	if !m.enabled() || !m.cfg.reportEventsInTimeline {
		return
	}

	name := fmt.Sprintf("c%x", m.eventCount.Add(1))

	id, ok := m.mark(ctx, name)
	if !ok {
		return
	}

	label := ev.Level.String()
	if len(ev.Fields) > 0 {
		label += " " + formatFields(ev.Fields)
	}

	err := m.surface.Measure(m.decorate(ctx, label), id, id)
	if err != nil {
		m.disabled.Store(true)
	}
}

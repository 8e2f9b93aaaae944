// Package bridge projects an instrumentation record stream onto a host
// timeline surface and a host console surface, keeping a per-context
// model of the currently open spans so marks and log lines reflect the
// activation structure of the instrumented code.
package bridge

import (
	"sync"

	"github.com/sarchlab/tracemark/console"
	"github.com/sarchlab/tracemark/timeline"
)

// A Listener receives the record stream of an instrumentation
// front-end. Every callback carries the identifier of the execution
// context it happens on, supplied by the caller. At most one Listener
// should receive a given stream; installation is the caller's concern.
type Listener interface {
	// NewSpan announces a span allocated by the front-end. No stack
	// interaction happens yet.
	NewSpan(ctx ContextID, id SpanID, name string, parent SpanID,
		fields []Field)

	// Record extends the fields of an already created span.
	Record(ctx ContextID, id SpanID, fields []Field)

	// Enter and Exit activate and deactivate a span. They may
	// alternate repeatedly for the same span.
	Enter(ctx ContextID, id SpanID)
	Exit(ctx ContextID, id SpanID)

	// Close disposes of a span permanently. Exactly once per span.
	Close(ctx ContextID, id SpanID)

	// Event reports a single point-in-time leveled occurrence.
	Event(ctx ContextID, level console.Level, fields []Field)
}

// Counters reports bridge activity totals.
type Counters struct {
	SpansCreated uint64 `json:"spans_created"`
	SpansClosed  uint64 `json:"spans_closed"`
	EventsSeen   uint64 `json:"events_seen"`
	Violations   uint64 `json:"violations"`
}

// A Bridge is the Listener implementation that dispatches each record
// to the activation stacks, the timeline marker, and the console
// renderer, in that order. Malformed input degrades output fidelity
// but never unwinds the host application.
type Bridge struct {
	marker   *marker
	renderer *renderer
	cfg      Config

	mu       sync.Mutex
	spans    map[SpanID]*SpanRecord
	stacks   map[ContextID]*activationStack
	counters Counters
}

var _ Listener = (*Bridge)(nil)

// New creates a Bridge with the given configuration and surfaces. A nil
// surface behaves like a disabled one. The returned handle is what
// installation code registers with the front-end; the bridge itself
// holds no process-wide state.
func New(
	cfg Config,
	tl timeline.Surface,
	cons console.Surface,
) *Bridge {
	return &Bridge{
		marker:   newMarker(tl, cfg),
		renderer: newRenderer(cons, cfg),
		cfg:      cfg,
		spans:    make(map[SpanID]*SpanRecord),
		stacks:   make(map[ContextID]*activationStack),
	}
}

func (b *Bridge) stack(ctx ContextID) *activationStack {
	st, ok := b.stacks[ctx]
	if !ok {
		st = &activationStack{}
		b.stacks[ctx] = st
	}

	return st
}

func (b *Bridge) violate(err error) {
	b.counters.Violations++
	b.renderer.diagnostic(err.Error())
}

// NewSpan registers a span. Fields are captured now; by default they
// stay frozen for the span's lifetime.
func (b *Bridge) NewSpan(
	_ ContextID,
	id SpanID,
	name string,
	parent SpanID,
	fields []Field,
) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if id == "" || name == "" {
		b.violate(&ProtocolViolation{
			Op:     "new_span",
			SpanID: id,
			Reason: "id and name must not be empty",
		})
		return
	}

	if _, exists := b.spans[id]; exists {
		b.violate(&ProtocolViolation{
			Op:     "new_span",
			SpanID: id,
			Reason: "a span with this id is already open",
		})
		return
	}

	b.spans[id] = &SpanRecord{
		ID:     id,
		Name:   name,
		Parent: parent,
		Fields: append([]Field(nil), fields...),
	}
	b.counters.SpansCreated++
}

// Record extends a span's fields. Once a span has been activated, new
// fields are ignored unless the configuration allows refreshing.
func (b *Bridge) Record(_ ContextID, id SpanID, fields []Field) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.spans[id]
	if !ok {
		b.violate(&ProtocolViolation{
			Op:     "record",
			SpanID: id,
			Reason: "span is not open",
		})
		return
	}

	if rec.generation > 0 && !b.cfg.refreshFieldsOnReenter {
		return
	}

	for _, f := range fields {
		rec.Fields = setField(rec.Fields, f)
	}
}

func setField(fields []Field, f Field) []Field {
	for i := range fields {
		if fields[i].Key == f.Key {
			fields[i].Value = f.Value
			return fields
		}
	}

	return append(fields, f)
}

// Enter pushes the span onto the context's activation stack and emits
// its start mark.
func (b *Bridge) Enter(ctx ContextID, id SpanID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.spans[id]
	if !ok {
		b.violate(&ProtocolViolation{
			Op:     "enter",
			SpanID: id,
			Reason: "span is not open",
		})
		return
	}

	st := b.stack(ctx)

	err := st.push(rec)
	if err != nil {
		b.violate(err)
		return
	}

	rec.Depth = st.depth() - 1
	rec.generation++
	rec.entered = true
	rec.enteredOn = ctx

	b.marker.onEnter(ctx, rec)
	b.renderer.onSpanEnter(rec, rec.Depth)
}

// Exit pops the span off the context's activation stack and emits its
// end mark and measurement. Exits must be strictly LIFO per context; a
// mismatched exit leaves the stack unchanged.
func (b *Bridge) Exit(ctx ContextID, id SpanID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	st := b.stack(ctx)

	rec, err := st.pop(id)
	if err != nil {
		b.violate(err)
		return
	}

	rec.entered = false

	b.marker.onExit(ctx, rec)
	b.renderer.onSpanExit(rec, rec.Depth)
}

// Close disposes of the span and releases all state retained for it. A
// close while the span is still entered is normalized into an implicit
// exit followed by the close.
func (b *Bridge) Close(_ ContextID, id SpanID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.spans[id]
	if !ok {
		b.violate(&ProtocolViolation{
			Op:     "close",
			SpanID: id,
			Reason: "span is not open",
		})
		return
	}

	if rec.entered {
		st := b.stack(rec.enteredOn)

		popped, err := st.pop(id)
		if err != nil {
			b.violate(err)
			st.remove(id)
		} else {
			popped.entered = false
			b.marker.onExit(rec.enteredOn, popped)
			b.renderer.onSpanExit(popped, popped.Depth)
		}
	}

	delete(b.spans, id)
	b.counters.SpansClosed++
}

// Event routes one leveled occurrence to the console, attributed to the
// top of the context's stack and indented by its depth. Events never
// touch the span state machine.
func (b *Bridge) Event(ctx ContextID, level console.Level, fields []Field) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.counters.EventsSeen++

	if !level.Passes(b.cfg.levelThreshold) {
		return
	}

	st := b.stack(ctx)

	ev := EventRecord{Level: level, Fields: fields}
	if top := st.top(); top != nil {
		ev.SpanID = top.ID
	}

	b.marker.onEvent(ctx, ev)
	b.renderer.onEvent(ev, st.depth(), st.nameChain())
}

// OpenSpans returns a snapshot of the spans currently entered in each
// execution context, outermost first.
func (b *Bridge) OpenSpans() map[ContextID][]SpanSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make(map[ContextID][]SpanSnapshot)

	for ctx, st := range b.stacks {
		if len(st.entries) == 0 {
			continue
		}

		spans := make([]SpanSnapshot, 0, len(st.entries))
		for _, rec := range st.entries {
			spans = append(spans, SpanSnapshot{
				ID:         rec.ID,
				Name:       rec.Name,
				Parent:     rec.Parent,
				Depth:      rec.Depth,
				Generation: rec.generation,
			})
		}

		snapshot[ctx] = spans
	}

	return snapshot
}

// Counters returns the bridge activity totals.
func (b *Bridge) Counters() Counters {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.counters
}

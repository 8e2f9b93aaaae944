package bridge

import (
	"github.com/sarchlab/tracemark/console"
	"github.com/sarchlab/tracemark/timeline"
)

// A SpanID is the opaque span identifier assigned by the
// instrumentation front-end. It is unique among currently open spans.
type SpanID string

// A ContextID identifies one execution context (a thread, worker, or
// goroutine). The caller supplies it on every callback.
type ContextID string

// A SpanRecord captures one open instrumentation span.
type SpanRecord struct {
	ID     SpanID
	Name   string
	Parent SpanID
	Fields []Field

	// StartMark is the timeline mark emitted when the span most
	// recently became active. Re-entry records a fresh mark.
	StartMark timeline.MarkID

	// Depth is the position in the activation stack at entry time.
	Depth int

	generation int
	entered    bool
	enteredOn  ContextID
}

// An EventRecord is a single leveled log occurrence, attributed to the
// span that was active when it happened.
type EventRecord struct {
	Level  console.Level
	Fields []Field
	SpanID SpanID
}

// A SpanSnapshot describes one open span for external inspection.
type SpanSnapshot struct {
	ID         SpanID `json:"id"`
	Name       string `json:"name"`
	Parent     SpanID `json:"parent_id"`
	Depth      int    `json:"depth"`
	Generation int    `json:"generation"`
}

package bridge

import "github.com/sarchlab/tracemark/console"

// A Fanout is a Listener that forwards every record to a list of
// downstream listeners, in registration order. It lets one record
// stream drive several bridges, for example one writing a trace file
// and one serving a monitor.
type Fanout struct {
	listeners []Listener
}

// NewFanout creates a Fanout over the given listeners.
func NewFanout(listeners ...Listener) *Fanout {
	return &Fanout{listeners: listeners}
}

// AddListener registers one more downstream listener. It must not be
// called once records are flowing.
func (f *Fanout) AddListener(l Listener) {
	f.listeners = append(f.listeners, l)
}

// NewSpan forwards the span creation to all listeners.
func (f *Fanout) NewSpan(
	ctx ContextID,
	id SpanID,
	name string,
	parent SpanID,
	fields []Field,
) {
	for _, l := range f.listeners {
		l.NewSpan(ctx, id, name, parent, fields)
	}
}

// Record forwards the field recording to all listeners.
func (f *Fanout) Record(ctx ContextID, id SpanID, fields []Field) {
	for _, l := range f.listeners {
		l.Record(ctx, id, fields)
	}
}

// Enter forwards the activation to all listeners.
func (f *Fanout) Enter(ctx ContextID, id SpanID) {
	for _, l := range f.listeners {
		l.Enter(ctx, id)
	}
}

// Exit forwards the deactivation to all listeners.
func (f *Fanout) Exit(ctx ContextID, id SpanID) {
	for _, l := range f.listeners {
		l.Exit(ctx, id)
	}
}

// Close forwards the disposal to all listeners.
func (f *Fanout) Close(ctx ContextID, id SpanID) {
	for _, l := range f.listeners {
		l.Close(ctx, id)
	}
}

// Event forwards the event to all listeners.
func (f *Fanout) Event(ctx ContextID, level console.Level, fields []Field) {
	for _, l := range f.listeners {
		l.Event(ctx, level, fields)
	}
}

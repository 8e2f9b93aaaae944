// Package timeline provides the host timeline surfaces that marks and
// measurements are projected onto.
package timeline

// A MarkID identifies one mark recorded on a timeline surface.
type MarkID string

// A Surface is a host timeline that supports the mark/measure primitive
// pair. Mark records a named point in time and returns its identifier.
// Measure records a named duration between two previously recorded
// marks.
type Surface interface {
	Mark(name string) (MarkID, error)
	Measure(name string, start, end MarkID) error
}

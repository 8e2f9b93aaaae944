package timeline

import (
	"fmt"
	"sync"
	"time"
)

// A Mark is one recorded timeline point.
type Mark struct {
	ID   MarkID
	Name string
	Time time.Time
}

// A Measure is one recorded duration between two marks.
type Measure struct {
	Name     string
	Start    MarkID
	End      MarkID
	Duration time.Duration
}

// MemSurface is a Surface that keeps all marks and measures in memory.
// It is mainly useful in tests and for live inspection.
type MemSurface struct {
	lock sync.Mutex

	markCount int
	markTimes map[MarkID]time.Time
	marks     []Mark
	measures  []Measure
}

// NewMemSurface creates a new MemSurface.
func NewMemSurface() *MemSurface {
	return &MemSurface{
		markTimes: make(map[MarkID]time.Time),
	}
}

// Mark records a named point at the current wall-clock time.
func (s *MemSurface) Mark(name string) (MarkID, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.markCount++
	id := MarkID(fmt.Sprintf("m%d", s.markCount))

	now := time.Now()
	s.markTimes[id] = now
	s.marks = append(s.marks, Mark{ID: id, Name: name, Time: now})

	return id, nil
}

// Measure records a named duration between two marks.
func (s *MemSurface) Measure(name string, start, end MarkID) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	startTime, ok := s.markTimes[start]
	if !ok {
		return fmt.Errorf("mark %s does not exist", start)
	}

	endTime, ok := s.markTimes[end]
	if !ok {
		return fmt.Errorf("mark %s does not exist", end)
	}

	s.measures = append(s.measures, Measure{
		Name:     name,
		Start:    start,
		End:      end,
		Duration: endTime.Sub(startTime),
	})

	return nil
}

// Marks returns a copy of all recorded marks.
func (s *MemSurface) Marks() []Mark {
	s.lock.Lock()
	defer s.lock.Unlock()

	marks := make([]Mark, len(s.marks))
	copy(marks, s.marks)

	return marks
}

// Measures returns a copy of all recorded measures.
func (s *MemSurface) Measures() []Measure {
	s.lock.Lock()
	defer s.lock.Unlock()

	measures := make([]Measure, len(s.measures))
	copy(measures, s.measures)

	return measures
}

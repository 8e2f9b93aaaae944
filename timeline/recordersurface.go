package timeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/sarchlab/tracemark/recording"
)

type markTableEntry struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Time float64 `json:"time"`
}

type measureTableEntry struct {
	Name      string  `json:"name"`
	StartMark string  `json:"start_mark"`
	EndMark   string  `json:"end_mark"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Duration  float64 `json:"duration"`
}

// RecorderSurface is a Surface that persists marks and measurements
// through a recording.DataRecorder, so timelines can be stored in
// SQLite, MySQL, or ClickHouse.
type RecorderSurface struct {
	lock sync.Mutex

	backend   recording.DataRecorder
	base      time.Time
	markCount int
	markTimes map[MarkID]float64
}

// NewRecorderSurface creates a RecorderSurface on top of the given
// backend. The marks and measures tables are created immediately.
func NewRecorderSurface(backend recording.DataRecorder) *RecorderSurface {
	backend.CreateTable("marks", markTableEntry{})
	backend.CreateTable("measures", measureTableEntry{})

	return &RecorderSurface{
		backend:   backend,
		base:      time.Now(),
		markTimes: make(map[MarkID]float64),
	}
}

// Mark records one named point.
func (s *RecorderSurface) Mark(name string) (MarkID, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.markCount++
	id := MarkID(fmt.Sprintf("m%d", s.markCount))

	t := time.Since(s.base).Seconds()
	s.markTimes[id] = t

	s.backend.InsertData("marks", markTableEntry{
		ID:   string(id),
		Name: name,
		Time: t,
	})

	return id, nil
}

// Measure records one named duration between two marks.
func (s *RecorderSurface) Measure(name string, start, end MarkID) error {
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

	s.backend.InsertData("measures", measureTableEntry{
		Name:      name,
		StartMark: string(start),
		EndMark:   string(end),
		Start:     startTime,
		End:       endTime,
		Duration:  endTime - startTime,
	})

	return nil
}

// Flush flushes the underlying backend.
func (s *RecorderSurface) Flush() {
	s.backend.Flush()
}

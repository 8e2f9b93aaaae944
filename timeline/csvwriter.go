package timeline

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

type csvMeasure struct {
	name       string
	start, end MarkID
	startTime  float64
	endTime    float64
}

// CSVTraceWriter is a Surface that stores completed measurements in a
// CSV file.
type CSVTraceWriter struct {
	path string
	file *os.File
	lock sync.Mutex

	base       time.Time
	markCount  int
	markTimes  map[MarkID]float64
	measures   []csvMeasure
	bufferSize int
}

// NewCSVTraceWriter creates a new CSVTraceWriter. Init must be called
// before the writer is used as a Surface.
func NewCSVTraceWriter(path string) *CSVTraceWriter {
	return &CSVTraceWriter{
		path:       path,
		base:       time.Now(),
		markTimes:  make(map[MarkID]float64),
		bufferSize: 1000,
	}
}

// Init creates the CSV file. It panics if the file already exists.
func (t *CSVTraceWriter) Init() {
	if t.path == "" {
		t.path = "tracemark_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	file, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	t.file = file

	fmt.Fprintf(file, "Name, StartMark, EndMark, Start, End, Duration\n")

	atexit.Register(func() {
		t.Flush()
		err := t.file.Close()
		if err != nil {
			panic(err)
		}
	})
}

// Mark records a named point. Marks are not written on their own; they
// anchor measurements.
func (t *CSVTraceWriter) Mark(_ string) (MarkID, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.markCount++
	id := MarkID(fmt.Sprintf("m%d", t.markCount))
	t.markTimes[id] = time.Since(t.base).Seconds()

	return id, nil
}

// Measure buffers one measurement row.
func (t *CSVTraceWriter) Measure(name string, start, end MarkID) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	startTime, ok := t.markTimes[start]
	if !ok {
		return fmt.Errorf("mark %s does not exist", start)
	}

	endTime, ok := t.markTimes[end]
	if !ok {
		return fmt.Errorf("mark %s does not exist", end)
	}

	t.measures = append(t.measures, csvMeasure{
		name:      name,
		start:     start,
		end:       end,
		startTime: startTime,
		endTime:   endTime,
	})

	if len(t.measures) >= t.bufferSize {
		t.flushLocked()
	}

	return nil
}

// Flush writes the buffered measurements to the CSV file.
func (t *CSVTraceWriter) Flush() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.flushLocked()
}

func (t *CSVTraceWriter) flushLocked() {
	for _, m := range t.measures {
		fmt.Fprintf(t.file, "%s, %s, %s, %.9f, %.9f, %.9f\n",
			m.name,
			m.start,
			m.end,
			m.startTime,
			m.endTime,
			m.endTime-m.startTime,
		)
	}

	t.measures = nil
}

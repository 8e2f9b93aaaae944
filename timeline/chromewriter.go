package timeline

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

type chromeMark struct {
	name string
	ts   float64
}

// ChromeTraceWriter is a Surface that writes measures as complete
// events in the Chrome trace-event JSON format. The resulting file can
// be loaded in chrome://tracing or Perfetto.
type ChromeTraceWriter struct {
	w    *os.File
	lock sync.Mutex

	base       time.Time
	pid        int
	firstEvent bool
	markCount  int
	marks      map[MarkID]chromeMark
}

// NewChromeTraceWriter creates a new ChromeTraceWriter writing to the
// file at path. If path is empty, a generated name is used.
func NewChromeTraceWriter(path string) *ChromeTraceWriter {
	if path == "" {
		path = "tracemark_" + xid.New().String() + ".trace.json"
	}

	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "Recording timeline in %s\n", path)

	_, err = f.Write([]byte("[\n"))
	if err != nil {
		panic(err)
	}

	t := &ChromeTraceWriter{
		w:          f,
		base:       time.Now(),
		pid:        os.Getpid(),
		firstEvent: true,
		marks:      make(map[MarkID]chromeMark),
	}

	atexit.Register(t.finish)

	return t
}

// Mark records a named point. Nothing is written until a measurement
// references the mark.
func (t *ChromeTraceWriter) Mark(name string) (MarkID, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.markCount++
	id := MarkID(fmt.Sprintf("m%d", t.markCount))

	ts := float64(time.Since(t.base).Microseconds())
	t.marks[id] = chromeMark{name: name, ts: ts}

	return id, nil
}

// Measure writes one complete event spanning the two marks.
func (t *ChromeTraceWriter) Measure(name string, start, end MarkID) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	startMark, ok := t.marks[start]
	if !ok {
		return fmt.Errorf("mark %s does not exist", start)
	}

	endMark, ok := t.marks[end]
	if !ok {
		return fmt.Errorf("mark %s does not exist", end)
	}

	if t.firstEvent {
		t.firstEvent = false
	} else {
		_, err := t.w.Write([]byte(",\n"))
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(t.w,
		`{"name":%q,"cat":"span","ph":"X","ts":%.3f,"dur":%.3f,"pid":%d,"tid":1}`,
		name, startMark.ts, endMark.ts-startMark.ts, t.pid)
	if err != nil {
		return err
	}

	return nil
}

func (t *ChromeTraceWriter) finish() {
	t.lock.Lock()
	defer t.lock.Unlock()

	_, err := t.w.Write([]byte("\n]"))
	if err != nil {
		panic(err)
	}

	err = t.w.Close()
	if err != nil {
		panic(err)
	}
}

package monitoring

import (
	"encoding/json"
	"net/http/httptest"

	"github.com/gorilla/mux"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tracemark/bridge"
	"github.com/sarchlab/tracemark/console"
)

func newTestBridge() *bridge.Bridge {
	cfg, err := bridge.MakeConfigBuilder().
		WithoutTimeline().
		WithoutConsole().
		Build()
	Expect(err).To(BeNil())

	return bridge.New(cfg, nil, nil)
}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
		b *bridge.Bridge
	)

	BeforeEach(func() {
		b = newTestBridge()

		m = NewMonitor()
		m.RegisterBridge(b)
	})

	It("should register the bridge", func() {
		Expect(m.b).To(BeIdenticalTo(b))
	})

	It("should fall back to a random port for privileged port numbers", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should serve the activity counters", func() {
		b.NewSpan("main", "1", "A", "", nil)
		b.Event("main", console.LevelInfo, nil)

		w := httptest.NewRecorder()
		m.listCounters(w, httptest.NewRequest("GET", "/api/counters", nil))

		var counters bridge.Counters
		err := json.Unmarshal(w.Body.Bytes(), &counters)
		Expect(err).To(BeNil())
		Expect(counters.SpansCreated).To(Equal(uint64(1)))
		Expect(counters.EventsSeen).To(Equal(uint64(1)))
	})

	It("should serve the spans of one context", func() {
		b.NewSpan("w1", "1", "A", "", nil)
		b.NewSpan("w2", "2", "B", "", nil)
		b.Enter("w1", "1")
		b.Enter("w2", "2")

		w := httptest.NewRecorder()
		r := httptest.NewRequest("GET", "/api/spans/w1", nil)
		r = mux.SetURLVars(r, map[string]string{"ctx": "w1"})
		m.listSpans(w, r)

		var spans []bridge.SpanSnapshot
		err := json.Unmarshal(w.Body.Bytes(), &spans)
		Expect(err).To(BeNil())
		Expect(spans).To(HaveLen(1))
		Expect(spans[0].Name).To(Equal("A"))
	})

	It("should serve the open spans by context", func() {
		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")

		w := httptest.NewRecorder()
		m.listContexts(w, httptest.NewRequest("GET", "/api/contexts", nil))

		var contexts map[string][]bridge.SpanSnapshot
		err := json.Unmarshal(w.Body.Bytes(), &contexts)
		Expect(err).To(BeNil())
		Expect(contexts).To(HaveLen(1))
		Expect(contexts["main"]).To(HaveLen(1))
		Expect(contexts["main"][0].Name).To(Equal("A"))
	})
})

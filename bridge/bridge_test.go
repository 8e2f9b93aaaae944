package bridge

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/tracemark/console"
	"github.com/sarchlab/tracemark/timeline"
)

var _ = Describe("Bridge", func() {
	var (
		mockCtrl *gomock.Controller
		tl       *MockTimelineSurface
		cons     *MockConsoleSurface
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		tl = NewMockTimelineSurface(mockCtrl)
		cons = NewMockConsoleSurface(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	makeBridge := func(builder ConfigBuilder) *Bridge {
		cfg, err := builder.WithColorMode(ColorNone).Build()
		Expect(err).To(BeNil())
		return New(cfg, tl, cons)
	}

	It("should project a nested span pair with an event", func() {
		b := makeBridge(MakeConfigBuilder())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("B@t2.1.start").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Mark("c1").
				Return(timeline.MarkID("m3"), nil),
			tl.EXPECT().
				Measure("INFO x",
					timeline.MarkID("m3"), timeline.MarkID("m3")).
				Return(nil),
			tl.EXPECT().
				Mark("B@t2.1.end").
				Return(timeline.MarkID("m4"), nil),
			tl.EXPECT().
				Measure("B", timeline.MarkID("m2"), timeline.MarkID("m4")).
				Return(nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m5"), nil),
			tl.EXPECT().
				Measure("A", timeline.MarkID("m1"), timeline.MarkID("m5")).
				Return(nil),
		)
		cons.EXPECT().
			Print(console.LevelInfo, "[INFO]     x").
			Return(nil)

		b.NewSpan("main", "1", "A", "", nil)
		b.NewSpan("main", "2", "B", "1", nil)
		b.Enter("main", "1")
		b.Enter("main", "2")
		b.Event("main", console.LevelInfo,
			[]Field{{Key: "message", Value: "x"}})
		b.Exit("main", "2")
		b.Exit("main", "1")
		b.Close("main", "1")
		b.Close("main", "2")

		c := b.Counters()
		Expect(c.SpansCreated).To(Equal(uint64(2)))
		Expect(c.SpansClosed).To(Equal(uint64(2)))
		Expect(c.EventsSeen).To(Equal(uint64(1)))
		Expect(c.Violations).To(Equal(uint64(0)))
	})

	It("should emit fresh marks for each activation generation", func() {
		b := makeBridge(MakeConfigBuilder())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Measure("A", timeline.MarkID("m1"), timeline.MarkID("m2")).
				Return(nil),
			tl.EXPECT().
				Mark("A@t1.2.start").
				Return(timeline.MarkID("m3"), nil),
			tl.EXPECT().
				Mark("A@t1.2.end").
				Return(timeline.MarkID("m4"), nil),
			tl.EXPECT().
				Measure("A", timeline.MarkID("m3"), timeline.MarkID("m4")).
				Return(nil),
		)

		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")
		b.Exit("main", "1")
		b.Enter("main", "1")
		b.Exit("main", "1")
		b.Close("main", "1")
	})

	It("should keep activation stacks independent per context", func() {
		b := makeBridge(MakeConfigBuilder())

		tl.EXPECT().
			Mark("A@t1.1.start").
			Return(timeline.MarkID("m1"), nil)
		tl.EXPECT().
			Mark("B@t2.1.start").
			Return(timeline.MarkID("m2"), nil)
		tl.EXPECT().
			Mark("c1").
			Return(timeline.MarkID("m3"), nil)
		tl.EXPECT().
			Measure("INFO on w2",
				timeline.MarkID("m3"), timeline.MarkID("m3")).
			Return(nil)
		cons.EXPECT().
			Print(console.LevelInfo, "[INFO]   on w2").
			Return(nil)

		b.NewSpan("w1", "1", "A", "", nil)
		b.NewSpan("w2", "2", "B", "", nil)
		b.Enter("w1", "1")
		b.Enter("w2", "2")

		// One span open on each context, so the event on w2 indents by
		// a single level.
		b.Event("w2", console.LevelInfo,
			[]Field{{Key: "message", Value: "on w2"}})

		open := b.OpenSpans()
		Expect(open).To(HaveLen(2))
		Expect(open["w1"]).To(HaveLen(1))
		Expect(open["w2"]).To(HaveLen(1))
		Expect(open["w1"][0].Name).To(Equal("A"))
		Expect(open["w1"][0].Depth).To(Equal(0))
	})

	It("should report a mismatched exit and leave the stack unchanged", func() {
		b := makeBridge(MakeConfigBuilder())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("B@t2.1.start").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Mark("B@t2.1.end").
				Return(timeline.MarkID("m3"), nil),
			tl.EXPECT().
				Measure("B", timeline.MarkID("m2"), timeline.MarkID("m3")).
				Return(nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m4"), nil),
			tl.EXPECT().
				Measure("A", timeline.MarkID("m1"), timeline.MarkID("m4")).
				Return(nil),
		)
		cons.EXPECT().
			Print(console.LevelError,
				`[ERROR] protocol violation in exit of span "1": `+
					`span "2" is on top of the stack`).
			Return(nil)

		b.NewSpan("main", "1", "A", "", nil)
		b.NewSpan("main", "2", "B", "", nil)
		b.Enter("main", "1")
		b.Enter("main", "2")

		b.Exit("main", "1")

		b.Exit("main", "2")
		b.Exit("main", "1")

		Expect(b.Counters().Violations).To(Equal(uint64(1)))
	})

	It("should report an exit on an empty stack", func() {
		b := makeBridge(MakeConfigBuilder())

		cons.EXPECT().
			Print(console.LevelError, gomock.Any()).
			Return(nil)

		b.Exit("main", "9")

		Expect(b.Counters().Violations).To(Equal(uint64(1)))
	})

	It("should reject a duplicate span id", func() {
		b := makeBridge(MakeConfigBuilder())

		cons.EXPECT().
			Print(console.LevelError, gomock.Any()).
			Return(nil)

		b.NewSpan("main", "1", "A", "", nil)
		b.NewSpan("main", "1", "A2", "", nil)

		Expect(b.Counters().SpansCreated).To(Equal(uint64(1)))
		Expect(b.Counters().Violations).To(Equal(uint64(1)))
	})

	It("should reject entering an unknown span", func() {
		b := makeBridge(MakeConfigBuilder())

		cons.EXPECT().
			Print(console.LevelError, gomock.Any()).
			Return(nil)

		b.Enter("main", "9")

		Expect(b.Counters().Violations).To(Equal(uint64(1)))
	})

	It("should normalize a close of an entered span into exit then close", func() {
		b := makeBridge(MakeConfigBuilder())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Measure("A", timeline.MarkID("m1"), timeline.MarkID("m2")).
				Return(nil),
		)

		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")
		b.Close("main", "1")

		Expect(b.OpenSpans()).To(BeEmpty())
		Expect(b.Counters().SpansClosed).To(Equal(uint64(1)))
	})

	It("should fold recorded fields into the measurement label", func() {
		b := makeBridge(MakeConfigBuilder())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Measure("A shard=3",
					timeline.MarkID("m1"), timeline.MarkID("m2")).
				Return(nil),
		)

		b.NewSpan("main", "1", "A", "", nil)
		b.Record("main", "1", []Field{{Key: "shard", Value: "3"}})
		b.Enter("main", "1")
		b.Exit("main", "1")
	})

	It("should freeze fields once the span has been activated", func() {
		b := makeBridge(MakeConfigBuilder())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Measure("A", timeline.MarkID("m1"), timeline.MarkID("m2")).
				Return(nil),
		)

		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")
		b.Record("main", "1", []Field{{Key: "shard", Value: "3"}})
		b.Exit("main", "1")
	})

	It("should refresh fields after activation when configured", func() {
		b := makeBridge(MakeConfigBuilder().WithFieldRefreshOnReenter())

		gomock.InOrder(
			tl.EXPECT().
				Mark("A@t1.1.start").
				Return(timeline.MarkID("m1"), nil),
			tl.EXPECT().
				Mark("A@t1.1.end").
				Return(timeline.MarkID("m2"), nil),
			tl.EXPECT().
				Measure("A shard=3",
					timeline.MarkID("m1"), timeline.MarkID("m2")).
				Return(nil),
		)

		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")
		b.Record("main", "1", []Field{{Key: "shard", Value: "3"}})
		b.Exit("main", "1")
	})

	It("should count but not render events below the threshold", func() {
		b := makeBridge(MakeConfigBuilder().
			WithLevelThreshold(console.LevelWarn))

		b.Event("main", console.LevelDebug,
			[]Field{{Key: "message", Value: "noisy"}})

		Expect(b.Counters().EventsSeen).To(Equal(uint64(1)))
	})

	It("should attribute events to the innermost open span", func() {
		b := makeBridge(MakeConfigBuilder().WithoutTimeline())

		cons.EXPECT().
			Print(console.LevelInfo, "[INFO]   inside").
			Return(nil)

		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")
		b.Event("main", console.LevelInfo,
			[]Field{{Key: "message", Value: "inside"}})
	})

	It("should touch no surface when both are disabled", func() {
		b := makeBridge(MakeConfigBuilder().
			WithoutTimeline().
			WithoutConsole())

		b.NewSpan("main", "1", "A", "", nil)
		b.Enter("main", "1")
		b.Event("main", console.LevelError,
			[]Field{{Key: "message", Value: "quiet"}})
		b.Exit("main", "1")
		b.Close("main", "1")

		Expect(b.Counters().SpansClosed).To(Equal(uint64(1)))
	})
})

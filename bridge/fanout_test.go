package bridge

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/tracemark/console"
)

// recordingListener counts the callbacks it receives.
type recordingListener struct {
	newSpans, records, enters, exits, closes, events int
}

func (l *recordingListener) NewSpan(
	_ ContextID, _ SpanID, _ string, _ SpanID, _ []Field,
) {
	l.newSpans++
}

func (l *recordingListener) Record(_ ContextID, _ SpanID, _ []Field) {
	l.records++
}

func (l *recordingListener) Enter(_ ContextID, _ SpanID) {
	l.enters++
}

func (l *recordingListener) Exit(_ ContextID, _ SpanID) {
	l.exits++
}

func (l *recordingListener) Close(_ ContextID, _ SpanID) {
	l.closes++
}

func (l *recordingListener) Event(
	_ ContextID, _ console.Level, _ []Field,
) {
	l.events++
}

var _ = Describe("Fanout", func() {
	It("should forward every record to all listeners", func() {
		first := &recordingListener{}
		second := &recordingListener{}
		f := NewFanout(first)
		f.AddListener(second)

		f.NewSpan("main", "1", "A", "", nil)
		f.Record("main", "1", []Field{{Key: "k", Value: "v"}})
		f.Enter("main", "1")
		f.Event("main", console.LevelInfo, nil)
		f.Exit("main", "1")
		f.Close("main", "1")

		for _, l := range []*recordingListener{first, second} {
			Expect(l.newSpans).To(Equal(1))
			Expect(l.records).To(Equal(1))
			Expect(l.enters).To(Equal(1))
			Expect(l.events).To(Equal(1))
			Expect(l.exits).To(Equal(1))
			Expect(l.closes).To(Equal(1))
		}
	})

	It("should satisfy the Listener contract", func() {
		var l Listener = NewFanout()
		Expect(l).NotTo(BeNil())
	})
})

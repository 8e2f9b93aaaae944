package bridge

import (
	"fmt"
	"strings"
)

// An activationStack tracks the spans currently entered in one
// execution context, most recent last. A span appears at most once per
// context, and exits must be strictly LIFO.
type activationStack struct {
	entries []*SpanRecord
}

func (s *activationStack) push(rec *SpanRecord) error {
	for _, e := range s.entries {
		if e.ID == rec.ID {
			return &ProtocolViolation{
				Op:     "enter",
				SpanID: rec.ID,
				Reason: "span is already entered in this context",
			}
		}
	}

	s.entries = append(s.entries, rec)

	return nil
}

func (s *activationStack) pop(id SpanID) (*SpanRecord, error) {
	if len(s.entries) == 0 {
		return nil, &ProtocolViolation{
			Op:     "exit",
			SpanID: id,
			Reason: "no span is entered in this context",
		}
	}

	top := s.entries[len(s.entries)-1]
	if top.ID != id {
		return nil, &ProtocolViolation{
			Op:     "exit",
			SpanID: id,
			Reason: fmt.Sprintf("span %q is on top of the stack", top.ID),
		}
	}

	s.entries = s.entries[:len(s.entries)-1]

	return top, nil
}

// remove drops a span from anywhere in the stack. It is only used to
// normalize the stack after a violating close.
func (s *activationStack) remove(id SpanID) {
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

func (s *activationStack) depth() int {
	return len(s.entries)
}

func (s *activationStack) top() *SpanRecord {
	if len(s.entries) == 0 {
		return nil
	}

	return s.entries[len(s.entries)-1]
}

// nameChain joins the names of the entered spans, outermost first.
func (s *activationStack) nameChain() string {
	names := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		names = append(names, e.Name)
	}

	return strings.Join(names, ":")
}

package bridge

import "fmt"

// A ProtocolViolation reports that the instrumentation front-end sent
// an inconsistent callback sequence, such as a double enter or an
// out-of-order exit. It is recovered locally and never propagated to
// the host application.
type ProtocolViolation struct {
	Op     string
	SpanID SpanID
	Reason string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation in %s of span %q: %s",
		e.Op, e.SpanID, e.Reason)
}

// A ConfigurationError reports an invalid option combination at
// construction time.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

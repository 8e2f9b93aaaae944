package console

import "fmt"

// Level is the severity of a console line. Smaller values are more
// severe.
type Level int

// The levels, from most to least severe.
const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

// String returns the tag used when rendering the level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "error", "ERROR":
		return LevelError, nil
	case "warn", "WARN":
		return LevelWarn, nil
	case "info", "INFO":
		return LevelInfo, nil
	case "debug", "DEBUG":
		return LevelDebug, nil
	case "trace", "TRACE":
		return LevelTrace, nil
	default:
		return LevelError, fmt.Errorf(
			"invalid level: %q (expected: error|warn|info|debug|trace)", s)
	}
}

// Passes returns true if a line at this level should be emitted when
// threshold is the configured minimum level.
func (l Level) Passes(threshold Level) bool {
	return l <= threshold
}

package bridge

import "github.com/sarchlab/tracemark/console"

// ColorMode determines how console lines are colored.
type ColorMode int

const (
	// ColorNone leaves console lines uncolored.
	ColorNone ColorMode = iota

	// ColorANSI colors the level tag with ANSI escape sequences before
	// handing lines to the surface.
	ColorANSI

	// ColorHostDefault hands plain lines to the surface and lets the
	// host console apply its own coloring.
	ColorHostDefault
)

// A NameDecorator enriches a timeline name just before emission, for
// example by tagging it with a worker index.
type NameDecorator func(name string, ctx ContextID) string

// Config determines which surfaces the bridge reports to and how marks
// and console lines are rendered. It is immutable after Build.
type Config struct {
	enableTimeline               bool
	enableConsole                bool
	colorMode                    ColorMode
	levelThreshold               console.Level
	reportSpanEnterExitInConsole bool
	reportSpanNamesInConsole     bool
	reportEventsInTimeline       bool
	reportFieldsInTimeline       bool
	refreshFieldsOnReenter       bool
	decorator                    NameDecorator
}

// ConfigBuilder can build bridge configurations.
type ConfigBuilder struct {
	cfg Config
}

// MakeConfigBuilder returns a builder with the default configuration:
// both surfaces enabled, ANSI coloring, trace-level threshold, events
// reported in the timeline, and span fields frozen at creation.
func MakeConfigBuilder() ConfigBuilder {
	return ConfigBuilder{
		cfg: Config{
			enableTimeline:         true,
			enableConsole:          true,
			colorMode:              ColorANSI,
			levelThreshold:         console.LevelTrace,
			reportEventsInTimeline: true,
			reportFieldsInTimeline: true,
		},
	}
}

// WithoutTimeline disables all timeline output.
func (b ConfigBuilder) WithoutTimeline() ConfigBuilder {
	b.cfg.enableTimeline = false
	return b
}

// WithoutConsole disables all console output.
func (b ConfigBuilder) WithoutConsole() ConfigBuilder {
	b.cfg.enableConsole = false
	b.cfg.colorMode = ColorNone
	return b
}

// WithColorMode sets how console lines are colored.
func (b ConfigBuilder) WithColorMode(mode ColorMode) ConfigBuilder {
	b.cfg.colorMode = mode
	return b
}

// WithLevelThreshold sets the minimum level at which events are
// rendered. Events below the threshold are dropped before formatting.
func (b ConfigBuilder) WithLevelThreshold(level console.Level) ConfigBuilder {
	b.cfg.levelThreshold = level
	return b
}

// WithSpanEnterExitInConsole makes the console announce span entries
// and exits.
func (b ConfigBuilder) WithSpanEnterExitInConsole() ConfigBuilder {
	b.cfg.reportSpanEnterExitInConsole = true
	return b
}

// WithSpanNamesInConsole prefixes event lines with the chain of open
// span names.
func (b ConfigBuilder) WithSpanNamesInConsole() ConfigBuilder {
	b.cfg.reportSpanNamesInConsole = true
	return b
}

// WithoutEventsInTimeline stops events from producing timeline blips.
func (b ConfigBuilder) WithoutEventsInTimeline() ConfigBuilder {
	b.cfg.reportEventsInTimeline = false
	return b
}

// WithoutFieldsInTimeline stops span fields from being rendered into
// measurement labels.
func (b ConfigBuilder) WithoutFieldsInTimeline() ConfigBuilder {
	b.cfg.reportFieldsInTimeline = false
	return b
}

// WithFieldRefreshOnReenter allows recorded fields to replace a span's
// captured fields after it has been activated. The default freezes
// fields at the first activation.
func (b ConfigBuilder) WithFieldRefreshOnReenter() ConfigBuilder {
	b.cfg.refreshFieldsOnReenter = true
	return b
}

// WithNameDecorator installs an enrichment step applied to timeline
// names just before emission.
func (b ConfigBuilder) WithNameDecorator(d NameDecorator) ConfigBuilder {
	b.cfg.decorator = d
	return b
}

// Build validates the options and returns the immutable Config.
func (b ConfigBuilder) Build() (Config, error) {
	if b.cfg.colorMode != ColorNone &&
		b.cfg.colorMode != ColorANSI &&
		b.cfg.colorMode != ColorHostDefault {
		return Config{}, &ConfigurationError{
			Reason: "unsupported color mode",
		}
	}

	if b.cfg.levelThreshold < console.LevelError ||
		b.cfg.levelThreshold > console.LevelTrace {
		return Config{}, &ConfigurationError{
			Reason: "level threshold out of range",
		}
	}

	return b.cfg, nil
}

package console

import "log"

// LogConsole is a Surface that prints every line to a standard library
// logger, regardless of level.
type LogConsole struct {
	*log.Logger
}

// NewLogConsole returns a new LogConsole that writes into the logger.
func NewLogConsole(logger *log.Logger) *LogConsole {
	c := new(LogConsole)
	c.Logger = logger
	return c
}

// Print writes one line into the logger.
func (c *LogConsole) Print(_ Level, text string) error {
	c.Logger.Println(text)
	return nil
}

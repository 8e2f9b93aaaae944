package console

// A Surface is a host console that can print one leveled line at a
// time. Implementations route the line to whatever leveled print
// primitive the host provides.
type Surface interface {
	Print(level Level, text string) error
}

package bridge

import "strings"

// A Field is one key/value pair attached to a span or an event. The
// order of fields is preserved from the instrumentation front-end.
type Field struct {
	Key   string
	Value string
}

// formatFields renders fields as space-separated key=value pairs in
// their original order. A field named "message" renders first, without
// the key prefix.
func formatFields(fields []Field) string {
	var sb strings.Builder

	for _, f := range fields {
		if f.Key == "message" {
			sb.WriteString(f.Value)
			break
		}
	}

	for _, f := range fields {
		if f.Key == "message" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString(" ")
		}

		sb.WriteString(f.Key)
		sb.WriteString("=")
		sb.WriteString(f.Value)
	}

	return sb.String()
}

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sarchlab/tracemark/bridge"
	"github.com/sarchlab/tracemark/console"
	"github.com/sarchlab/tracemark/monitoring"
	"github.com/sarchlab/tracemark/recording"
	"github.com/sarchlab/tracemark/timeline"
	"github.com/spf13/cobra"
)

type fieldEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// A record is one line of the NDJSON input stream.
type record struct {
	Op     string       `json:"op"`
	Ctx    string       `json:"ctx"`
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Parent string       `json:"parent"`
	Level  string       `json:"level"`
	Fields []fieldEntry `json:"fields"`
}

type flushable interface {
	Flush()
}

func runReplay(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	tl, err := buildTimelineSurface(cmd)
	if err != nil {
		return err
	}

	cons, err := buildConsoleSurface(cmd)
	if err != nil {
		return err
	}

	b := bridge.New(cfg, tl, cons)

	monitorPort, _ := cmd.Flags().GetInt("monitor")
	if monitorPort > 0 {
		monitor := monitoring.NewMonitor().WithPortNumber(monitorPort)
		monitor.RegisterBridge(b)
		monitor.StartServer()
	}

	input, closeInput, err := openInput(cmd)
	if err != nil {
		return err
	}
	defer closeInput()

	delay, _ := cmd.Flags().GetDuration("delay")

	err = replay(input, b, delay)
	if err != nil {
		return err
	}

	if f, ok := tl.(flushable); ok {
		f.Flush()
	}

	counters := b.Counters()
	fmt.Fprintf(os.Stderr,
		"Replayed %d spans (%d closed), %d events, %d violations\n",
		counters.SpansCreated, counters.SpansClosed,
		counters.EventsSeen, counters.Violations)

	return nil
}

func buildConfig(cmd *cobra.Command) (bridge.Config, error) {
	levelString, _ := cmd.Flags().GetString("level")
	level, err := console.ParseLevel(levelString)
	if err != nil {
		return bridge.Config{}, err
	}

	builder := bridge.MakeConfigBuilder().WithLevelThreshold(level)

	timelineKind, _ := cmd.Flags().GetString("timeline")
	if timelineKind == "none" {
		builder = builder.WithoutTimeline()
	}

	consoleKind, _ := cmd.Flags().GetString("console")
	switch consoleKind {
	case "none":
		builder = builder.WithoutConsole()
	case "color":
		builder = builder.WithColorMode(bridge.ColorHostDefault)
	default:
		builder = builder.WithColorMode(bridge.ColorNone)
	}

	if spanLines, _ := cmd.Flags().GetBool("span-lines"); spanLines {
		builder = builder.WithSpanEnterExitInConsole()
	}

	if spanNames, _ := cmd.Flags().GetBool("span-names"); spanNames {
		builder = builder.WithSpanNamesInConsole()
	}

	if noBlips, _ := cmd.Flags().GetBool("no-event-blips"); noBlips {
		builder = builder.WithoutEventsInTimeline()
	}

	return builder.Build()
}

func buildTimelineSurface(cmd *cobra.Command) (timeline.Surface, error) {
	kind, _ := cmd.Flags().GetString("timeline")
	path, _ := cmd.Flags().GetString("timeline-output")

	switch kind {
	case "chrome":
		return timeline.NewChromeTraceWriter(path), nil
	case "csv":
		w := timeline.NewCSVTraceWriter(path)
		w.Init()
		return w, nil
	case "sqlite":
		return timeline.NewRecorderSurface(
			recording.NewSQLiteWriter(path)), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf(
			"invalid timeline surface: %q (expected: chrome|csv|sqlite|none)",
			kind)
	}
}

func buildConsoleSurface(cmd *cobra.Command) (console.Surface, error) {
	kind, _ := cmd.Flags().GetString("console")

	switch kind {
	case "color":
		return console.NewColorConsole(os.Stdout), nil
	case "plain":
		return console.NewWriterConsole(os.Stdout), nil
	case "log":
		return console.NewLogConsole(
			log.New(os.Stdout, "", log.LstdFlags)), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf(
			"invalid console surface: %q (expected: color|plain|log|none)",
			kind)
	}
}

func openInput(cmd *cobra.Command) (io.Reader, func(), error) {
	path, _ := cmd.Flags().GetString("input")

	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}

	return f, func() { f.Close() }, nil
}

func replay(input io.Reader, b *bridge.Bridge, delay time.Duration) error {
	scanner := bufio.NewScanner(input)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		err := json.Unmarshal(line, &rec)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNumber, err)
		}

		dispatch(b, rec)

		if delay > 0 {
			time.Sleep(delay)
		}
	}

	return scanner.Err()
}

func dispatch(b *bridge.Bridge, rec record) {
	ctx := bridge.ContextID(rec.Ctx)
	id := bridge.SpanID(rec.ID)

	switch rec.Op {
	case "new_span":
		b.NewSpan(ctx, id, rec.Name, bridge.SpanID(rec.Parent),
			toFields(rec.Fields))
	case "record":
		b.Record(ctx, id, toFields(rec.Fields))
	case "enter":
		b.Enter(ctx, id)
	case "exit":
		b.Exit(ctx, id)
	case "close":
		b.Close(ctx, id)
	case "event":
		level, err := console.ParseLevel(rec.Level)
		if err != nil {
			level = console.LevelInfo
		}
		b.Event(ctx, level, toFields(rec.Fields))
	default:
		fmt.Fprintf(os.Stderr, "Unknown record op: %q\n", rec.Op)
	}
}

func toFields(entries []fieldEntry) []bridge.Field {
	fields := make([]bridge.Field, 0, len(entries))
	for _, e := range entries {
		fields = append(fields, bridge.Field{Key: e.Key, Value: e.Value})
	}

	return fields
}

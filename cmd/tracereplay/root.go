package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "tracereplay",
	Short: "Replay an instrumentation record stream through a bridge.",
	Long: `tracereplay reads an NDJSON stream of instrumentation records ` +
		`(span creation, enter/exit/close, leveled events) and replays it ` +
		`through a bridge, producing a timeline file and a console ` +
		`transcript.`,
	RunE: runReplay,
}

func init() {
	// Allow a .env file to set the defaults.
	_ = godotenv.Load()

	rootCmd.Flags().StringP("input", "i", envOr("TRACEMARK_INPUT", "-"),
		"NDJSON record file to replay, - for stdin")
	rootCmd.Flags().String("timeline",
		envOr("TRACEMARK_TIMELINE", "chrome"),
		"timeline surface: chrome|csv|sqlite|none")
	rootCmd.Flags().String("timeline-output",
		envOr("TRACEMARK_TIMELINE_OUTPUT", ""),
		"timeline output path, generated if empty")
	rootCmd.Flags().String("console",
		envOr("TRACEMARK_CONSOLE", "color"),
		"console surface: color|plain|log|none")
	rootCmd.Flags().String("level", envOr("TRACEMARK_LEVEL", "trace"),
		"minimum level rendered on the console")
	rootCmd.Flags().Bool("span-lines", false,
		"announce span enter/exit on the console")
	rootCmd.Flags().Bool("span-names", false,
		"prefix event lines with the open span name chain")
	rootCmd.Flags().Bool("no-event-blips", false,
		"do not report events in the timeline")
	rootCmd.Flags().Int("monitor", 0,
		"port of the live monitoring server, 0 to disable")
	rootCmd.Flags().Duration("delay", 0,
		"delay between replayed records")
}

func envOr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	return v
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

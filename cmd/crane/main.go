package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"crane/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "crane",
	Short: "Crane language front end",
	Long:  `Crane tokenizes, parses and checks crane sources and renders their diagnostics`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareSession,
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)

	registerPersistentFlags(rootCmd)
}

// main executes the root command. Any error, including reported diagnostics,
// exits with status code 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	closeSession(rootCmd)
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// Глобальные флаги
func registerPersistentFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	flags.String("path-mode", "auto", "how diagnostics show file paths (auto|absolute|relative|basename)")
	flags.String("trace", "", "write trace events to a file (- for stderr, *.ndjson for NDJSON)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.Int("trace-ring", 0, "keep only the last N trace events and write them on exit (0=stream)")
	flags.String("ui", "auto", "progress UI for directory runs (auto|on|off)")
	flags.Bool("no-cache", false, "bypass the on-disk parse cache")
	flags.String("cpu-profile", "", "write a CPU profile to file")
	flags.String("mem-profile", "", "write a heap profile to file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

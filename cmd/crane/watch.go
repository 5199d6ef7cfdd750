package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crane/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [file.crane|directory]",
	Short: "Re-check crane sources whenever they change",
	Long: `Watch checks the target once and then re-parses files as they are written,
printing fresh diagnostics for each change. Stop it with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "delay that coalesces bursts of file events")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}

	s := current
	opts := s.driverOptions()
	opts.Debounce = debounce
	target := s.defaultTarget(args)

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if !s.quiet {
		fmt.Fprintf(out, "watching %s\n", target)
	}
	return driver.Watch(cmd.Context(), target, opts, func(ev driver.WatchEvent) {
		stamp := time.Now().Format("15:04:05")
		switch {
		case ev.Err != nil:
			fmt.Fprintf(errOut, "[%s] %s: %v\n", stamp, ev.Path, ev.Err)
		case ev.Removed:
			if !s.quiet {
				fmt.Fprintf(out, "[%s] %s removed\n", stamp, ev.Path)
			}
		case ev.Result != nil:
			s.printDiagnostics(errOut, ev.Result.Bag, ev.Result.FileSet)
			if s.quiet {
				return
			}
			status := "ok"
			if ev.Result.Bag.HasErrors() {
				status = "errors"
			} else if ev.Result.Bag.HasWarnings() {
				status = "warnings"
			}
			fmt.Fprintf(out, "[%s] %s: %s\n", stamp, ev.Path, status)
		}
	})
}

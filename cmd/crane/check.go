package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crane/internal/diag"
	"crane/internal/diagfmt"
	"crane/internal/driver"
	"crane/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [file.crane|directory]",
	Short: "Check crane sources and report diagnostics",
	Long: `Check lexes and parses a file or every *.crane file under a directory and
reports diagnostics. Without an argument it checks [build].sources of crane.toml,
or the current directory. Unchanged files are served from the parse cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostics format (pretty|short|json)")
	checkCmd.Flags().String("fail-on", "error", "lowest severity that makes check fail (info|warning|error)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

// checkSummary aggregates a check run.
type checkSummary struct {
	files    int
	failed   int
	errors   int
	warnings int
	cached   int
}

func (c checkSummary) String() string {
	msg := fmt.Sprintf("checked %d file(s): %d error(s), %d warning(s)", c.files, c.errors, c.warnings)
	if c.cached > 0 {
		msg += fmt.Sprintf(", %d cached", c.cached)
	}
	return msg
}

func (c *checkSummary) add(bag *diag.Bag, failed, cached bool) {
	c.files++
	if failed {
		c.failed++
	}
	if cached {
		c.cached++
	}
	errs, warns := bag.Counts()
	c.errors += errs
	c.warnings += warns
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	failOnFlag, err := cmd.Flags().GetString("fail-on")
	if err != nil {
		return fmt.Errorf("failed to get fail-on flag: %w", err)
	}
	failOn, err := diag.ParseSeverity(failOnFlag)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	s := current
	opts := s.driverOptions()
	opts.Jobs = jobs
	target := s.defaultTarget(args)

	st, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	var (
		fs      *source.FileSet
		bags    []*diag.Bag
		summary checkSummary
	)
	if !st.IsDir() {
		result, err := driver.Parse(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		fs = result.FileSet
		bags = append(bags, result.Bag)
		summary.add(result.Bag, result.Err != nil, result.Cached)
	} else {
		var results []driver.ParseDirResult
		if format == "pretty" && s.useTUI(cmd.OutOrStdout()) {
			fs, results, err = runParseDirWithUI(cmd.Context(), cmd.OutOrStdout(), "checking "+target, target, opts)
		} else {
			fs, results, err = driver.ParseDir(cmd.Context(), target, opts)
		}
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		for _, r := range results {
			bags = append(bags, r.Bag)
			summary.add(r.Bag, r.Err != nil, r.Cached)
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		if err := writeCheckJSON(out, bags, fs, s.pathMode); err != nil {
			return err
		}
	case "short":
		writeCheckShort(out, bags, fs)
	default:
		for _, bag := range bags {
			s.printDiagnostics(cmd.ErrOrStderr(), bag, fs)
		}
		if !s.quiet {
			fmt.Fprintln(out, summary.String())
		}
	}

	failed := summary.failed > 0
	for _, bag := range bags {
		failed = failed || bag.HasAtLeast(failOn)
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

// writeCheckShort prints one line per diagnostic, paths relative to the checked root.
func writeCheckShort(w io.Writer, bags []*diag.Bag, fs *source.FileSet) {
	var all []*diag.Diagnostic
	for _, bag := range bags {
		all = append(all, bag.Items()...)
	}
	if text := diag.FormatShort(all, fs, diag.ShortOptions{Notes: true}); text != "" {
		fmt.Fprintln(w, text)
	}
}

func writeCheckJSON(w io.Writer, bags []*diag.Bag, fs *source.FileSet, mode diagfmt.PathMode) error {
	merged := diag.NewBag(0)
	for _, bag := range bags {
		merged.Merge(bag)
	}
	return diagfmt.JSON(w, merged, fs, diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         mode,
		IncludeNotes:     true,
	})
}

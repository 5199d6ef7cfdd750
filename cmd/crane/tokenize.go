package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"crane/internal/diagfmt"
	"crane/internal/driver"
	"crane/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] [file.crane|directory]",
	Short: "Tokenize a crane source file or directory",
	Long: `Tokenize breaks down a crane source file, or every *.crane file under a
directory, into its constituent tokens. Without an argument it uses [build].sources
of crane.toml, or the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
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
	if st.IsDir() {
		return tokenizeDir(cmd, target, format, opts)
	}

	result, err := driver.Tokenize(cmd.Context(), target, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet)
	if result.Err != nil {
		return errDiagnostics
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatTokensJSON(out, result.Tokens)
	}
	return diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
}

// tokenizeDir печатает токены всех файлов: pretty с заголовками "== path ==",
// json одним массивом {file, tokens}. Файлы с ошибками только диагностируются.
func tokenizeDir(cmd *cobra.Command, dir, format string, opts driver.Options) error {
	s := current
	fs, results, err := driver.TokenizeDir(cmd.Context(), dir, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	failed := false
	var files []diagfmt.TokenFileOutput
	for _, r := range results {
		s.printDiagnostics(cmd.ErrOrStderr(), r.Bag, fs)
		if r.Err != nil {
			failed = true
			continue
		}
		path := fs.Get(r.FileID).DisplayPath(source.PathAuto, "")
		if format == "json" {
			files = append(files, diagfmt.TokenFileOutput{File: path, Tokens: diagfmt.TokenOutputs(r.Tokens)})
			continue
		}
		if err := writeTokenSection(out, path, r, fs, s.quiet); err != nil {
			return err
		}
	}
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if files == nil {
			files = []diagfmt.TokenFileOutput{}
		}
		if err := enc.Encode(files); err != nil {
			return err
		}
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func writeTokenSection(w io.Writer, path string, r driver.TokenizeDirResult, fs *source.FileSet, quiet bool) error {
	if !quiet {
		if _, err := fmt.Fprintf(w, "== %s ==\n", path); err != nil {
			return err
		}
	}
	return diagfmt.FormatTokensPretty(w, r.Tokens, fs)
}

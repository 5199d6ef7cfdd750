package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"crane/internal/ast"
	"crane/internal/diagfmt"
	"crane/internal/driver"
	"crane/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] [file.crane|directory]",
	Short: "Parse a crane source file or directory and output AST",
	Long: `Parse analyzes a crane source file or all *.crane files in a directory and outputs
their syntax trees. Without an argument it parses [build].sources of crane.toml,
or the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|tree|json|yaml|msgpack)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

// parsedFile — то, что печатается для одного файла независимо от режима.
type parsedFile struct {
	path string
	tree *ast.Tree
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "tree", "json", "yaml", "msgpack":
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
	filePath := s.defaultTarget(args)

	// Проверяем, файл это или директория
	st, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	if !st.IsDir() {
		result, err := driver.Parse(cmd.Context(), filePath, opts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		s.printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet)
		if result.Tree == nil {
			return errDiagnostics
		}
		return writeSingleAST(cmd.OutOrStdout(), format, result.Tree, result.FileSet)
	}

	// Парсинг директории
	fs, results, err := driver.ParseDir(cmd.Context(), filePath, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	failed := false
	files := make([]parsedFile, 0, len(results))
	for _, r := range results {
		s.printDiagnostics(cmd.ErrOrStderr(), r.Bag, fs)
		if r.Tree == nil {
			failed = true
			continue
		}
		files = append(files, parsedFile{
			path: fs.Get(r.FileID).DisplayPath(source.PathAuto, ""),
			tree: r.Tree,
		})
	}
	if err := writeDirAST(cmd.OutOrStdout(), format, files, fs, s.quiet); err != nil {
		return err
	}
	if failed {
		return errDiagnostics
	}
	return nil
}

func writeSingleAST(w io.Writer, format string, tree *ast.Tree, fs *source.FileSet) error {
	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(w, tree, fs)
	case "tree":
		return diagfmt.FormatASTTree(w, tree)
	case "json":
		return diagfmt.FormatASTJSON(w, tree)
	case "yaml":
		return diagfmt.FormatASTYAML(w, tree)
	case "msgpack":
		return diagfmt.FormatASTMsgpack(w, tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeDirAST печатает деревья всех файлов: текстовые форматы с заголовком
// "== path ==", структурные одним списком документов.
func writeDirAST(w io.Writer, format string, files []parsedFile, fs *source.FileSet, quiet bool) error {
	switch format {
	case "pretty", "tree":
		for idx, f := range files {
			if !quiet {
				if _, err := fmt.Fprintf(w, "== %s ==\n", f.path); err != nil {
					return err
				}
			}
			if err := writeSingleAST(w, format, f.tree, fs); err != nil {
				return err
			}
			if !quiet && idx < len(files)-1 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
		}
		return nil
	}

	docs := make([]diagfmt.ASTDocument, 0, len(files))
	for _, f := range files {
		docs = append(docs, diagfmt.BuildASTDocument(f.tree, f.path))
	}
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(docs)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(docs); err != nil {
			return err
		}
		return encoder.Close()
	case "msgpack":
		return msgpack.NewEncoder(w).Encode(docs)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"crane/internal/source"
)

// ShortLine is one entry of the short format: "severity CODE path:line:col message".
type ShortLine struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

func (l ShortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.Severity, l.Code, l.Path, l.Line, l.Column, l.Message)
}

// ShortOptions tune ShortLines.
type ShortOptions struct {
	// Notes emits every note as its own "note" line.
	Notes bool
	// SkipPrefix drops entries whose relative path starts with it (e.g. shared fixtures).
	SkipPrefix string
}

// ShortLines renders diagnostics into sorted single-line entries with paths
// relative to the FileSet base directory. Spans of unknown files are skipped.
func ShortLines(diags []*Diagnostic, fs *source.FileSet, opts ShortOptions) []ShortLine {
	if fs == nil {
		return nil
	}
	var out []ShortLine
	add := func(sev, code string, span source.Span, msg string) {
		if int(span.File) >= fs.Len() {
			return
		}
		file := fs.Get(span.File)
		path := strings.TrimPrefix(file.DisplayPath(source.PathRelative, fs.BaseDir()), "./")
		if opts.SkipPrefix != "" && strings.HasPrefix(path, opts.SkipPrefix) {
			return
		}
		start := file.Position(span.Start)
		out = append(out, ShortLine{
			Severity: sev,
			Code:     code,
			Path:     path,
			Line:     start.Line,
			Column:   start.Col,
			Message:  oneLine(msg),
		})
	}
	for _, d := range diags {
		add(strings.ToLower(d.Severity.String()), d.Code.ID(), d.Primary, d.Message)
		if !opts.Notes {
			continue
		}
		for _, n := range d.Notes {
			add("note", d.Code.ID(), n.Span, n.Msg)
		}
	}
	slices.SortStableFunc(out, func(a, b ShortLine) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return out
}

// FormatShort joins ShortLines with newlines, without a trailing one.
func FormatShort(diags []*Diagnostic, fs *source.FileSet, opts ShortOptions) string {
	lines := ShortLines(diags, fs, opts)
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}

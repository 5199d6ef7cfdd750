package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"crane/internal/diag"
	"crane/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, note, gutter, caret, path *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		path:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := formatPath(f, fs, opts.PathMode)

	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", path, start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		d.Code.ID(),
		d.Message,
	)
	writeSnippet(w, f, start, end, opts, pal)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		ns, ne := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
			pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
		writeSnippet(w, nf, ns, ne, PrettyOpts{Width: opts.Width}, pal)
	}
}

// writeSnippet печатает строку(и) исходника и подчёркивание под span.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	if start.Line == 0 || int(start.Line) > len(f.LineIdx)+1 {
		return
	}
	line := f.GetLine(start.Line)

	gutterWidth := len(fmt.Sprint(start.Line))
	first := start.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context)
		if first > ctx {
			first -= ctx
		} else {
			first = 1
		}
	}
	for ln := first; ln < start.Line; ln++ {
		writeSourceLine(w, ln, f.GetLine(ln), gutterWidth, opts, pal)
	}
	writeSourceLine(w, start.Line, line, gutterWidth, opts, pal)

	// колонки в байтах, ширина в ячейках терминала
	startCol := clampCol(int(start.Col), line)
	endCol := len(line) + 1
	if end.Line == start.Line {
		endCol = clampCol(int(end.Col), line)
	}
	pad := displayWidth(line[:startCol-1])
	span := displayWidth(line[startCol-1 : max(endCol, startCol)-1])
	if span < 1 {
		span = 1
	}
	marker := "^" + strings.Repeat("~", span-1)
	if opts.Width > 0 && pad+span > int(opts.Width) {
		span = max(int(opts.Width)-pad, 1)
		marker = "^" + strings.Repeat("~", span-1)
	}
	fmt.Fprintf(w, "%s %s %s%s\n",
		strings.Repeat(" ", gutterWidth), pal.gutter.Sprint("|"),
		strings.Repeat(" ", pad), pal.caret.Sprint(marker))
}

func writeSourceLine(w io.Writer, num uint32, text string, gutterWidth int, opts PrettyOpts, pal palette) {
	text = expandTabs(text)
	if opts.Width > 0 {
		text = runewidth.Truncate(text, int(opts.Width), "…")
	}
	fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, num), pal.gutter.Sprint("|"), text)
}

func clampCol(col int, line string) int {
	if col < 1 {
		return 1
	}
	if col > len(line)+1 {
		return len(line) + 1
	}
	return col
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

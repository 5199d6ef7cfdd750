package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"crane/internal/diag"
	"crane/internal/source"
)

func singleDiagBag(d *diag.Diagnostic) *diag.Bag {
	bag := diag.NewBag(10)
	bag.Add(d)
	return bag
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("/home/user/project/src/test.crane", []byte("x = \"unterminated string\n"))
	fs.SetBaseDir("/home/user/project")

	bag := singleDiagBag(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 4, End: 24}, "unterminated string literal"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.crane:1:5:"},
		{"Relative path", PathModeRelative, "src/test.crane:1:5:"},
		{"Basename only", PathModeBasename, "test.crane:1:5:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1002: unterminated string literal") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.crane", []byte("x = 1\ny = \"abc"))
	bag := singleDiagBag(diag.New(diag.SevError, diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 10, End: 14}, "unterminated string"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})

	want := "test.crane:2:5: ERROR LEX1002: unterminated string\n" +
		"2 | y = \"abc\n" +
		"  |     ^~~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContext(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("ctx.crane", []byte("a\nb\nc d\n"))
	bag := singleDiagBag(diag.New(diag.SevWarning, diag.SynUnexpectedToken,
		source.Span{File: fileID, Start: 6, End: 7}, "unexpected token"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1})

	want := "ctx.crane:3:3: WARNING SYN2001: unexpected token\n" +
		"2 | b\n" +
		"3 | c d\n" +
		"  |   ^\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

// Каретка выравнивается по ширине символов, а не по байтам.
func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("wide.crane", []byte("\"日本\" x"))
	bag := singleDiagBag(diag.New(diag.SevError, diag.SynUnexpectedToken,
		source.Span{File: fileID, Start: 9, End: 10}, "boom"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if got, want := lines[len(lines)-1], "  | "+strings.Repeat(" ", 7)+"^"; got != want {
		t.Fatalf("caret line: got %q, want %q", got, want)
	}
}

func TestPrettyNotesAndColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("n.crane", []byte("def f() {\n"))
	d := diag.New(diag.SevError, diag.SynUnclosedBrace, source.Span{File: fileID, Start: 8, End: 9}, "unclosed '{'").
		WithNote(source.Span{File: fileID, Start: 0, End: 3}, "in this function")
	bag := singleDiagBag(d)

	var plain bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(plain.String(), "note: n.crane:1:1: in this function") {
		t.Fatalf("note missing:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes without color:\n%q", plain.String())
	}

	var colored bytes.Buffer
	Pretty(&colored, bag, fs, PrettyOpts{PathMode: PathModeBasename, Color: true})
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes with color:\n%q", colored.String())
	}
	if strings.Contains(colored.String(), "in this function") {
		t.Fatalf("notes must be hidden without ShowNotes")
	}
}

func TestPrettyWidthTruncates(t *testing.T) {
	fs := source.NewFileSet()
	long := "x = " + strings.Repeat("a", 60)
	fileID := fs.AddVirtual("w.crane", []byte(long))
	bag := singleDiagBag(diag.New(diag.SevError, diag.LexUnexpectedChar,
		source.Span{File: fileID, Start: 0, End: 1}, "bad"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Width: 20})
	if !strings.Contains(buf.String(), "…") {
		t.Fatalf("expected truncated source line:\n%s", buf.String())
	}
}

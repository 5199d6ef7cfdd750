package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("main.crane", []byte("let a = 1"), 0)
	id2 := fs.Add("main.crane", []byte("let a = 2"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids: %d, %d", id1, id2)
	}

	latest, ok := fs.GetLatest("main.crane")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "let a = 1" {
		t.Errorf("old version lost: %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// Позиции символов \n
	id := fs.AddVirtual("a.crane", []byte("a\nb\n"))
	file := fs.Get(id)

	want := []uint32{1, 3}
	if len(file.LineIdx) != len(want) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, want)
	}
	for i, v := range want {
		if file.LineIdx[i] != v {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], v)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.crane", []byte("def f() {\n  x\n}"))

	tests := []struct {
		name  string
		span  Span
		start LineCol
		end   LineCol
	}{
		{"first line", Span{File: id, Start: 0, End: 3}, LineCol{1, 1}, LineCol{1, 4}},
		{"second line", Span{File: id, Start: 12, End: 13}, LineCol{2, 3}, LineCol{2, 4}},
		{"last line", Span{File: id, Start: 14, End: 15}, LineCol{3, 1}, LineCol{3, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.start || end != tt.end {
				t.Errorf("Resolve(%v) = %v..%v, want %v..%v", tt.span, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("l.crane", []byte("one\ntwo\nthree")))

	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for line, want := range cases {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.crane")
	// BOM + CRLF + decomposed "é" (e + U+0301)
	raw := []byte("\xEF\xBB\xBFlet s = \"e\u0301\"\r\nx\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)

	want := "let s = \"\u00e9\"\nx\n"
	if string(file.Content) != want {
		t.Errorf("content = %q, want %q", file.Content, want)
	}
	for _, flag := range []FileFlags{FileHadBOM, FileNormalizedCRLF, FileNormalizedNFC} {
		if file.Flags&flag == 0 {
			t.Errorf("flag %b not set (flags=%b)", flag, file.Flags)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "nope.crane")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDisplayPath(t *testing.T) {
	long := &File{Path: "/very/long/absolute/path/to/some/project/src/main.crane"}
	short := &File{Path: "src/a.crane"}
	tests := []struct {
		name  string
		file  *File
		style PathStyle
		base  string
		want  string
	}{
		{"base", long, PathBase, "", "main.crane"},
		{"auto long", long, PathAuto, "", "main.crane"},
		{"relative", long, PathRelative, "/very/long/absolute/path/to/some/project", "src/main.crane"},
		{"relative outside", long, PathRelative, "/elsewhere", long.Path},
		{"auto short", short, PathAuto, "", "src/a.crane"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.file.DisplayPath(tt.style, tt.base); got != tt.want {
				t.Errorf("DisplayPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLineSpanAndText(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("s.crane", []byte("first\nsecond\n"))
	file := fs.Get(id)

	if got := file.LineCount(); got != 3 {
		t.Fatalf("LineCount = %d, want 3", got)
	}
	span := file.LineSpan(2)
	if span != (Span{File: id, Start: 6, End: 12}) {
		t.Fatalf("LineSpan(2) = %v", span)
	}
	if got := fs.Text(span); got != "second" {
		t.Errorf("Text = %q", got)
	}
	if got := file.LineSpan(3); !got.Empty() || got.Start != 13 {
		t.Errorf("LineSpan(3) = %v, want empty span at 13", got)
	}
	if got := file.LineSpan(9); got != (Span{File: id}) {
		t.Errorf("LineSpan(9) = %v", got)
	}
	if got := file.Text(Span{File: id, Start: 10, End: 100}); got != "nd\n" {
		t.Errorf("clamped Text = %q", got)
	}
}

func TestPositionAtNewline(t *testing.T) {
	file := &File{Content: []byte("ab\ncd"), LineIdx: buildLineIndex([]byte("ab\ncd"))}
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам '\n' ещё на первой строке
		{3, LineCol{2, 1}},
		{5, LineCol{2, 3}}, // конец файла
	}
	for _, tt := range tests {
		if got := file.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %v, want %v", tt.off, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		flags FileFlags
	}{
		{"clean", "x = 1\n", "x = 1\n", 0},
		{"lone CR kept", "a\rb", "a\rb", 0},
		{"crlf", "a\r\nb\r\n", "a\nb\n", FileNormalizedCRLF},
		{"bom only", "\xEF\xBB\xBF", "", FileHadBOM},
		{"nfc", "e\u0301", "\u00e9", FileNormalizedNFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags := normalize([]byte(tt.in))
			if string(got) != tt.want || flags != tt.flags {
				t.Errorf("normalize(%q) = %q, %b; want %q, %b", tt.in, got, flags, tt.want, tt.flags)
			}
		})
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 6}
	b := Span{File: 1, Start: 1, End: 5}
	if got := a.Cover(b); got != (Span{File: 1, Start: 1, End: 6}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files = %v, want %v", got, a)
	}
}

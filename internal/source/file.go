package source

import (
	"path/filepath"

	"fortio.org/safecast"
)

// LineCount returns the number of lines; a trailing newline opens an empty last line.
func (f *File) LineCount() uint32 {
	return uint32(len(f.LineIdx)) + 1 // #nosec G115 -- LineIdx is bounded by Content, itself checked on Add
}

// LineBounds returns the byte range of line n (1-based) without its '\n'.
func (f *File) LineBounds(n uint32) (start, end uint32, ok bool) {
	if n == 0 || n > f.LineCount() {
		return 0, 0, false
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return 0, 0, false
	}
	if n > 1 {
		start = f.LineIdx[n-2] + 1
	}
	end = size
	if int(n-1) < len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	return start, end, true
}

// GetLine returns the text of line n (1-based), or "" when it does not exist.
func (f *File) GetLine(n uint32) string {
	start, end, ok := f.LineBounds(n)
	if !ok {
		return ""
	}
	return string(f.Content[start:end])
}

// LineSpan covers line n; for a missing line it is the empty span at offset 0.
func (f *File) LineSpan(n uint32) Span {
	start, end, ok := f.LineBounds(n)
	if !ok {
		return Span{File: f.ID}
	}
	return Span{File: f.ID, Start: start, End: end}
}

// Position converts a byte offset into a line and column.
func (f *File) Position(off uint32) LineCol {
	return toLineCol(f.LineIdx, off)
}

// Text returns the bytes covered by span, clamped to the file.
func (f *File) Text(span Span) string {
	size := len(f.Content)
	start, end := min(int(span.Start), size), min(int(span.End), size)
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// DisplayPath formats the file path for humans. baseDir is used by PathRelative;
// an empty baseDir means the working directory.
func (f *File) DisplayPath(style PathStyle, baseDir string) string {
	switch style {
	case PathAbsolute:
		if abs, err := absolutePath(f.Path); err == nil {
			return abs
		}
	case PathRelative:
		if rel, err := relativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case PathBase:
		return filepath.Base(f.Path)
	case PathAuto:
		if len(f.Path) >= autoPathLimit && filepath.IsAbs(f.Path) {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}

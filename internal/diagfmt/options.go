package diagfmt

import "crane/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode = source.PathStyle

const (
	// PathModeAuto keeps short paths and shortens long absolute ones.
	PathModeAuto = source.PathAuto
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute = source.PathAbsolute
	PathModeRelative = source.PathRelative
	PathModeBasename = source.PathBase
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк исходника перед строкой диагностики
	PathMode  PathMode
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	return f.DisplayPath(mode, fs.BaseDir())
}

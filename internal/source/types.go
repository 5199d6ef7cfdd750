package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags records what happened to a file's bytes while loading.
	FileFlags uint8
)

const (
	// FileVirtual marks content added from memory (tests, stdin, watch buffers).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File is one immutable version of a source file.
type File struct {
	ID      FileID
	Path    string   // slash-separated, cleaned
	Content []byte   // после нормализации BOM/CRLF/NFC
	LineIdx []uint32 // смещения всех '\n'
	Hash    [32]byte // SHA-256 of Content; keys the parse cache
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}

// PathStyle selects how File.DisplayPath renders a path.
type PathStyle uint8

const (
	// PathAuto keeps short or relative paths and shortens long absolute ones to the base name.
	PathAuto PathStyle = iota
	PathAbsolute
	PathRelative
	PathBase
)

// autoPathLimit is the length above which PathAuto drops the directory part.
const autoPathLimit = 40

package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every loaded file version and resolves spans against them.
// It is not safe for concurrent writes; readers may share it once loading is done.
type FileSet struct {
	files   []*File
	latest  map[string]FileID // путь -> последняя версия
	baseDir string
}

// NewFileSet creates a new empty FileSet whose relative paths start at the working directory.
func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// SetBaseDir sets the directory PathRelative is computed against.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir returns the base directory, falling back to the working directory.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Len reports how many file versions the set holds.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// Add stores already-normalized content under path and returns a fresh FileID,
// even when path was added before. GetLatest follows the newest version.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s is too large: %w", path, err))
	}
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	file := &File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
	fileSet.files = append(fileSet.files, file)
	fileSet.latest[file.Path] = id
	return id
}

// Load reads path from disk, strips a BOM, folds CRLF and applies NFC before Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content as is, flagged FileVirtual.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file for id. The pointer stays valid as the set grows.
func (fileSet *FileSet) Get(id FileID) *File {
	return fileSet.files[id]
}

// GetLatest returns the newest FileID registered for path.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.latest[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return f.Position(span.Start), f.Position(span.End)
}

// Text returns the source covered by span.
func (fileSet *FileSet) Text(span Span) string {
	return fileSet.files[span.File].Text(span)
}

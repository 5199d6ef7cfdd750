package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/diagfmt"
	"crane/internal/source"
)

// Current schema version - increment when CachePayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит деревья успешно разобранных файлов по хешу содержимого.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic — предупреждение разбора без привязки к FileID.
type CachedDiagnostic struct {
	Severity diag.Severity
	Code     diag.Code
	Message  string
	Start    uint32
	End      uint32
}

// CachePayload is one cached parse.
type CachePayload struct {
	// Schema version for safe invalidation when format changes
	Schema   uint16
	Path     string
	AST      diagfmt.ASTDocument
	Warnings []CachedDiagnostic
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewDiskCache(filepath.Join(base, app))
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки — подкаталог "ast".
	return filepath.Join(c.dir, "ast", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	err = os.Rename(tmp, p)
	return err
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func (c *DiskCache) store(key Digest, file *source.File, tree *ast.Tree, bag *diag.Bag) error {
	payload := &CachePayload{
		Schema: diskCacheSchemaVersion,
		Path:   file.Path,
		AST:    diagfmt.BuildASTDocument(tree, file.Path),
	}
	for _, d := range bag.Items() {
		payload.Warnings = append(payload.Warnings, CachedDiagnostic{
			Severity: d.Severity,
			Code:     d.Code,
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}
	return c.Put(key, payload)
}

// lookup восстанавливает дерево и предупреждения, привязывая спаны к file.
// Любая проблема с записью трактуется как промах.
func (c *DiskCache) lookup(key Digest, file *source.File, bag *diag.Bag) (*ast.Tree, bool) {
	var payload CachePayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return nil, false
	}
	for i := range payload.AST.Nodes {
		rebindSpans(&payload.AST.Nodes[i], file.ID)
	}
	tree, err := payload.AST.Tree()
	if err != nil {
		return nil, false
	}
	for _, w := range payload.Warnings {
		bag.Add(diag.New(w.Severity, w.Code, source.Span{File: file.ID, Start: w.Start, End: w.End}, w.Message))
	}
	return tree, true
}

func rebindSpans(n *diagfmt.ASTNodeOutput, id source.FileID) {
	n.Span.File = id
	for i := range n.Children {
		rebindSpans(&n.Children[i], id)
	}
}

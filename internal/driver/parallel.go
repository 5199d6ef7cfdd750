package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/source"
	"crane/internal/token"
	"crane/internal/trace"
)

// SourceExt is the file extension of crane sources.
const SourceExt = ".crane"

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string        // путь к файлу
	FileID source.FileID // ID файла в FileSet
	Tokens []token.Token
	Bag    *diag.Bag
	Err    error // фатальная ошибка лексера или загрузки
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path   string
	FileID source.FileID
	Tree   *ast.Tree
	Bag    *diag.Bag
	Err    error
	Cached bool
}

// ListSourceFiles возвращает отсортированный список всех *.crane файлов в директории
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// loadedFile — файл, предзагруженный до запуска воркеров. FileSet не
// потокобезопасен на запись, поэтому все Load делаются последовательно.
type loadedFile struct {
	path    string
	file    *source.File
	loadErr error
}

func loadAll(fileSet *source.FileSet, files []string) []loadedFile {
	out := make([]loadedFile, len(files))
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			// пустой виртуальный файл, чтобы у диагностики был валидный span
			id = fileSet.AddVirtual(path, nil)
		}
		out[i] = loadedFile{path: path, file: fileSet.Get(id), loadErr: err}
	}
	return out
}

func loadFailure(bag *diag.Bag, lf loadedFile) error {
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: lf.file.ID},
		"failed to load file: "+lf.loadErr.Error()))
	return lf.loadErr
}

// fileJob обрабатывает один файл и пишет результат в свой слот i.
// cached сообщает, что результат взят из DiskCache.
type fileJob func(ctx context.Context, i int, lf loadedFile) (bag *diag.Bag, cached bool)

// forEachFile loads every source file under dir, calls alloc with their count
// and then runs job for each file with bounded parallelism.
func forEachFile(ctx context.Context, dir, name string, opts Options, alloc func(n int), job fileJob) (*source.FileSet, error) {
	tracer := opts.tracer(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, name, parentSpan(ctx))
	defer root.End("")

	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	fileSet := source.NewFileSet()
	fileSet.SetBaseDir(dir)
	alloc(len(files))
	if len(files) == 0 {
		return fileSet, nil
	}

	loadIdx := opts.Timer.Begin("load")
	loaded := loadAll(fileSet, files)
	opts.Timer.End(loadIdx, "")
	root.WithExtra("files", strconv.Itoa(len(files)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	runIdx := opts.Timer.Begin(name)
	defer opts.Timer.End(runIdx, strconv.Itoa(len(files))+" files")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, lf := range loaded {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			opts.notify(ProgressEvent{Path: lf.path, Status: FileStarted, Index: i, Total: len(files)})

			span := trace.Begin(tracer, trace.ScopeFile, "file", root.ID()).WithExtra("path", lf.path)
			fctx := trace.WithSpanContext(gctx, trace.SpanContext{SpanID: span.ID()})
			started := time.Now()
			bag, cached := job(fctx, i, lf)
			span.End("")

			errs, warns := bag.Counts()
			opts.notify(ProgressEvent{
				Path:     lf.path,
				Status:   FileFinished,
				Index:    i,
				Total:    len(files),
				Errors:   errs,
				Warnings: warns,
				Cached:   cached,
				Elapsed:  time.Since(started),
			})
			return nil
		})
	}
	return fileSet, g.Wait()
}

// TokenizeDir токенизирует все *.crane файлы в директории параллельно.
// Результаты отсортированы по пути.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	var results []TokenizeDirResult
	fileSet, err := forEachFile(ctx, dir, "tokenize-dir", opts,
		func(n int) { results = make([]TokenizeDirResult, n) },
		func(ctx context.Context, i int, lf loadedFile) (*diag.Bag, bool) {
			r := &results[i]
			r.Path, r.FileID, r.Bag = lf.path, lf.file.ID, diag.NewBag(opts.MaxDiagnostics)
			if lf.loadErr != nil {
				r.Err = loadFailure(r.Bag, lf)
				return r.Bag, false
			}
			r.Tokens, r.Err = lex(ctx, lf.file, r.Bag, opts)
			return r.Bag, false
		})
	return fileSet, results, err
}

// ParseDir парсит все *.crane файлы в директории параллельно.
// Результаты отсортированы по пути.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	var results []ParseDirResult
	fileSet, err := forEachFile(ctx, dir, "parse-dir", opts,
		func(n int) { results = make([]ParseDirResult, n) },
		func(ctx context.Context, i int, lf loadedFile) (*diag.Bag, bool) {
			r := &results[i]
			r.Path, r.FileID = lf.path, lf.file.ID
			if lf.loadErr != nil {
				r.Bag = diag.NewBag(opts.MaxDiagnostics)
				r.Err = loadFailure(r.Bag, lf)
				return r.Bag, false
			}
			pr := parseFile(ctx, lf.file, opts)
			r.Tree, r.Bag, r.Err, r.Cached = pr.Tree, pr.Bag, pr.Err, pr.Cached
			return r.Bag, r.Cached
		})
	return fileSet, results, err
}

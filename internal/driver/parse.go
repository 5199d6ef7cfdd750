package driver

import (
	"context"
	"fmt"
	"time"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/parser"
	"crane/internal/source"
	"crane/internal/token"
	"crane/internal/trace"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // nil при попадании в кэш
	Tree    *ast.Tree     // nil, если лексер или парсер упали
	Bag     *diag.Bag
	// Err is the fatal lexer or parser error, already present in Bag.
	Err    error
	Cached bool
}

// Parse loads path, lexes and parses it. Only I/O failures are returned as error.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	res := parseFile(ctx, fs.Get(fileID), opts)
	res.FileSet = fs
	return res, nil
}

// ParseSource parses in-memory content registered under name.
func ParseSource(ctx context.Context, name string, content []byte, opts Options) *ParseResult {
	fs := source.NewFileSet()
	res := parseFile(ctx, fs.Get(fs.AddVirtual(name, content)), opts)
	res.FileSet = fs
	return res
}

// parseFile не трогает FileSet: в директорных прогонах он общий.
func parseFile(ctx context.Context, file *source.File, opts Options) *ParseResult {
	res := &ParseResult{
		File: file,
		Bag:  diag.NewBag(opts.MaxDiagnostics),
	}

	key := cacheKey(file.Hash)
	if opts.Cache != nil {
		if tree, ok := opts.Cache.lookup(key, file, res.Bag); ok {
			trace.Point(opts.tracer(ctx), trace.ScopePass, "cache hit", file.Path, parentSpan(ctx))
			res.Tree = tree
			res.Cached = true
			return res
		}
	}

	res.Tokens, res.Err = lex(ctx, file, res.Bag, opts)
	if res.Err != nil {
		return res
	}

	started := time.Now()
	res.Tree, res.Err = parser.New(res.Tokens, parser.Options{
		Reporter:    diag.BagReporter{Bag: res.Bag},
		Tracer:      opts.tracer(ctx),
		TraceParent: parentSpan(ctx),
	}).Parse()
	opts.Timer.Add("parse", time.Since(started))

	if res.Err == nil && opts.Cache != nil {
		// кэш — оптимизация, его ошибки не ломают разбор
		if err := opts.Cache.store(key, file, res.Tree, res.Bag); err != nil {
			trace.Point(opts.tracer(ctx), trace.ScopePass, "cache store failed", err.Error(), parentSpan(ctx))
		}
	}
	return res
}

func parentSpan(ctx context.Context) uint64 {
	return trace.CurrentSpan(ctx).SpanID
}

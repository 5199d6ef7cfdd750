package driver

import (
	"context"
	"fmt"
	"time"

	"crane/internal/diag"
	"crane/internal/lexer"
	"crane/internal/source"
	"crane/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	// Err is the fatal lexer error, already present in Bag.
	Err error
}

// Tokenize loads path and lexes it. Only I/O failures are returned as error.
func Tokenize(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tokenizeFile(ctx, fs, fs.Get(fileID), opts), nil
}

// TokenizeSource lexes in-memory content registered under name.
func TokenizeSource(ctx context.Context, name string, content []byte, opts Options) *TokenizeResult {
	fs := source.NewFileSet()
	return tokenizeFile(ctx, fs, fs.Get(fs.AddVirtual(name, content)), opts)
}

func tokenizeFile(ctx context.Context, fs *source.FileSet, file *source.File, opts Options) *TokenizeResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	tokens, err := lex(ctx, file, bag, opts)
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Err:     err,
	}
}

func lex(ctx context.Context, file *source.File, bag *diag.Bag, opts Options) ([]token.Token, error) {
	started := time.Now()
	defer func() { opts.Timer.Add("lex", time.Since(started)) }()

	lx := lexer.New(file, lexer.Options{
		Reporter:    diag.BagReporter{Bag: bag},
		Tracer:      opts.tracer(ctx),
		TraceParent: parentSpan(ctx),
	})
	return lx.Lex()
}

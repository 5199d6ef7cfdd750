package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"crane/internal/diag"
	"crane/internal/lexer"
	"crane/internal/parser"
	"crane/internal/source"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parseInput(input []byte) (*diag.Bag, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("fuzz.crane", input)
	file := fs.Get(fileID)

	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	tokens, err := lexer.New(file, lexer.Options{Reporter: reporter}).Lex()
	if err != nil {
		return bag, nil
	}
	tree, err := parser.New(tokens, parser.Options{Reporter: reporter}).Parse()
	if err != nil {
		return bag, err
	}
	if tree == nil {
		return bag, errors.New("nil tree without error")
	}
	return bag, nil
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		bag, err := parseInput(clampInput(input))
		if err == nil {
			return
		}
		var perr *parser.Error
		if !errors.As(err, &perr) {
			t.Fatalf("unexpected parse failure: %v", err)
		}
		if !bag.HasErrors() {
			t.Fatalf("parse error %v was not reported", err)
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// вложенность и незакрытые формы, на которых легко зациклиться
	f.Add([]byte("def f() { { { { } } } }"))
	f.Add([]byte("if (if (if (x)))"))
	f.Add([]byte("((((1 + 2) * 3) - 4)"))
	f.Add([]byte("foo(bar(baz(1, 2), 3)"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = parseInput(input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}

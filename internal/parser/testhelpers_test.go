package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/lexer"
	"crane/internal/parser"
	"crane/internal/source"
)

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// runParse лексит и парсит src; лексер обязан пройти без ошибок.
func runParse(t *testing.T, src string) (*ast.Tree, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.crane", []byte(src)))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}

	toks, err := lexer.New(file, lexer.Options{Reporter: rep}).Lex()
	if err != nil {
		t.Fatalf("lex %q: %v", src, err)
	}
	tree, err := parser.New(toks, parser.Options{Reporter: rep}).Parse()
	return tree, bag, err
}

// parseOK требует успешного разбора без диагностик.
func parseOK(t *testing.T, src string) *ast.Tree {
	t.Helper()
	tree, bag, err := runParse(t, src)
	if err != nil {
		t.Fatalf("parse %q: %v (diagnostics: %s)", src, err, diagnosticsSummary(bag))
	}
	if bag.Len() != 0 {
		t.Fatalf("parse %q: unexpected diagnostics: %s", src, diagnosticsSummary(bag))
	}
	return tree
}

// parseFail требует фатальной ошибки с заданным кодом и строкой.
func parseFail(t *testing.T, src string, code diag.Code, line uint32) *parser.Error {
	t.Helper()
	tree, bag, err := runParse(t, src)
	if err == nil {
		t.Fatalf("parse %q: expected %s, got tree:\n%s", src, code.ID(), tree.SExpr())
	}
	if tree != nil {
		t.Fatalf("parse %q: tree must be nil on error", src)
	}
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("parse %q: error %T is not *parser.Error", src, err)
	}
	if perr.Code != code || perr.Line != line {
		t.Fatalf("parse %q: got %s at line %d (%s), want %s at line %d",
			src, perr.Code.ID(), perr.Line, perr.Msg, code.ID(), line)
	}
	if !bag.HasErrors() {
		t.Fatalf("parse %q: error was not reported", src)
	}
	return perr
}

package parser_test

import (
	"testing"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/lexer"
	"crane/internal/parser"
	"crane/internal/source"
	"crane/internal/token"
	"crane/internal/trace"
)

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"precedence", "1 + 2 * 3", "Operator(Add)[Number(1) Operator(Mul)[Number(2) Number(3)]]"},
		{"left assoc", "1 - 2 - 3", "Operator(Sub)[Operator(Sub)[Number(1) Number(2)] Number(3)]"},
		{"parens", "(1 + 2) * 3", "Operator(Mul)[Operator(Add)[Number(1) Number(2)] Number(3)]"},
		{"nested parens", "((1))", "Number(1)"},
		{"div before sub", "8 / 2 - 1", "Operator(Sub)[Operator(Div)[Number(8) Number(2)] Number(1)]"},
		{"comparison", "a + 1 < b", "Operator(Less)[Operator(Add)[Identifier(a) Number(1)] Identifier(b)]"},
		{"equality chain", "a == b != c", "Operator(NotEq)[Operator(EqEq)[Identifier(a) Identifier(b)] Identifier(c)]"},
		{"logic", "1 | 2 & 3", "Operator(Or)[Number(1) Operator(And)[Number(2) Number(3)]]"},
		{"strings", `"a" + 'b'`, `Operator(Add)[String("a") String("b")]`},
		{"bool operand", "True & x", "Operator(And)[Keyword(True) Identifier(x)]"},
		{"call on left", "foo(1) + 2", "Operator(Add)[FunctionCall(foo)[Number(1)] Number(2)]"},
		{"call on right", "1 + foo(2)", "Operator(Add)[Number(1) FunctionCall(foo)[Number(2)]]"},
		{"unknown op has lowest prec", "1 + 2 % 3", "Operator(Mod)[Operator(Add)[Number(1) Number(2)] Number(3)]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseOK(t, tt.input)
			if tree.Len() != 1 {
				t.Fatalf("want 1 statement, got %d:\n%s", tree.Len(), tree.SExpr())
			}
			if got := tree.SExpr(); got != tt.want {
				t.Fatalf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"call", "foo(1, 2, 3)", "FunctionCall(foo)[Number(1) Number(2) Number(3)]"},
		{"empty call", "foo()", "FunctionCall(foo)"},
		{"call args are expressions", "foo(1 + 2, bar(3))",
			"FunctionCall(foo)[Operator(Add)[Number(1) Number(2)] FunctionCall(bar)[Number(3)]]"},
		{"call with group arg", "foo((1 + 2) * 3)",
			"FunctionCall(foo)[Operator(Mul)[Operator(Add)[Number(1) Number(2)] Number(3)]]"},
		{"def", "def add(a, b) { a + b }",
			"Function(add)[Identifier(a) Identifier(b) Block[Operator(Add)[Identifier(a) Identifier(b)]]]"},
		{"def no params", "def f() { }", "Function(f)[Block]"},
		{"if", "if (x > 1) { y = 2 }",
			"Conditional[Operator(Greater)[Identifier(x) Number(1)] Block[Reassignment[Identifier(y) Number(2)]]]"},
		{"if with call", "if (ok(x)) { go() }", "Conditional[FunctionCall(ok)[Identifier(x)] Block[FunctionCall(go)]]"},
		{"if nested braces", "if (x) { { y } }", "Conditional[Identifier(x) Block[Identifier(y)]]"},
		{"reassign", "x = 1 + 2", "Reassignment[Identifier(x) Operator(Add)[Number(1) Number(2)]]"},
		{"reassign group", "x = (1)", "Reassignment[Identifier(x) Number(1)]"},
		{"let", "let x = 5", "Keyword(let)\nReassignment[Identifier(x) Number(5)]"},
		{"operand boundary", "1 + 2\n3", "Operator(Add)[Number(1) Number(2)]\nNumber(3)"},
		{"idents", "x\ny", "Identifier(x)\nIdentifier(y)"},
		{"literals", "None False true 'c' \"s\"",
			`Keyword(None)` + "\n" + `Keyword(False)` + "\n" + `Keyword(True)` + "\n" + `String("c")` + "\n" + `String("s")`},
		{"other keywords", "while return", "Keyword(while)\nKeyword(return)"},
		{"bare operator", "-", "Operator(Sub)"},
		{"nested def", "def f(a) { if (a) { g(a) } }",
			"Function(f)[Identifier(a) Block[Conditional[Identifier(a) Block[FunctionCall(g)[Identifier(a)]]]]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parseOK(t, tt.input)
			if got := tree.SExpr(); got != tt.want {
				t.Fatalf("got\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestParseStatementCount(t *testing.T) {
	src := "def f(a) { a }\nf(1)\nx = 2\n"
	tree := parseOK(t, src)
	if tree.Len() != 3 {
		t.Fatalf("want 3 statements, got %d:\n%s", tree.Len(), tree.SExpr())
	}
	kinds := []ast.NodeType{ast.NodeFunction, ast.NodeFunctionCall, ast.NodeReassignment}
	for i, k := range kinds {
		if tree.At(i).Type != k {
			t.Errorf("statement %d: got %s, want %s", i, tree.At(i).Type, k)
		}
	}
}

func TestParseLines(t *testing.T) {
	tree := parseOK(t, "\ndef f(a) {\n  a + 1\n}\nf(2)")
	fn := tree.At(0)
	if fn.Line != 2 {
		t.Fatalf("function line: got %d, want 2", fn.Line)
	}
	body := fn.Children[len(fn.Children)-1]
	if body.Type != ast.NodeBlock || body.Line != 2 {
		t.Fatalf("block: got %s at line %d", body.Type, body.Line)
	}
	if got := body.Children[0].Line; got != 3 {
		t.Fatalf("body statement line: got %d, want 3", got)
	}
	if got := tree.At(1).Line; got != 5 {
		t.Fatalf("call line: got %d, want 5", got)
	}
}

func TestParseStrayTokens(t *testing.T) {
	tree, bag, err := runParse(t, "x , y .")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Identifier(x)\nErr\nIdentifier(y)\nErr"
	if got := tree.SExpr(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
	if bag.HasErrors() {
		t.Fatalf("stray tokens must not be errors: %s", diagnosticsSummary(bag))
	}
	if bag.Len() != 2 {
		t.Fatalf("want 2 warnings, got %s", diagnosticsSummary(bag))
	}
	for _, d := range bag.Items() {
		if d.Code != diag.SynUnexpectedToken || d.Severity != diag.SevWarning {
			t.Fatalf("unexpected diagnostic %s", diagnosticsSummary(bag))
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
		line  uint32
	}{
		{"missing comma", "foo(1 2)", diag.SynExpectComma, 1},
		{"trailing comma", "foo(1,)", diag.SynExpectExpression, 1},
		{"leading comma", "foo(,1)", diag.SynExpectExpression, 1},
		{"reassign without rhs", "x =", diag.SynExpectExpression, 1},
		{"reassign brace rhs", "if (a) { x = }", diag.SynExpectExpression, 1},
		{"dangling operator", "1 +", diag.SynMalformedExpression, 1},
		{"dangling operator in body", "def f(a) {\n  1 +\n}", diag.SynMalformedExpression, 2},
		{"empty group", "()", diag.SynMalformedExpression, 1},
		{"doubled operator", "1 + * 2", diag.SynMalformedExpression, 1},
		{"def without name", "def (a) { }", diag.SynExpectIdentifier, 1},
		{"def without lparen", "def f a { }", diag.SynExpectLParen, 1},
		{"def without body", "def f(a) a", diag.SynExpectLBrace, 1},
		{"def param comma", "def f(a b) { }", diag.SynExpectComma, 1},
		{"if without lparen", "if x { }", diag.SynExpectLParen, 1},
		{"if empty condition", "if () { }", diag.SynExpectExpression, 1},
		{"if without rparen", "if (x { })", diag.SynExpectRParen, 1},
		{"if without body", "if (x)\ny", diag.SynExpectLBrace, 2},
		{"comma in group", "foo((1, 2))", diag.SynExpectRParen, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parseFail(t, tt.input, tt.code, tt.line)
		})
	}
}

// Незакрытый блок лексер не пропустит, поэтому токены собираем руками.
func TestParseUnclosedBlock(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Keyword, Text: "def", Line: 1},
		{Kind: token.Ident, Text: "f", Line: 1},
		{Kind: token.LParen, Line: 1},
		{Kind: token.RParen, Line: 1},
		{Kind: token.LBrace, Line: 1},
		{Kind: token.Ident, Text: "x", Line: 2},
		{Kind: token.EOF, Line: 3},
	}
	bag := diag.NewBag(10)
	tree, err := parser.New(toks, parser.Options{Reporter: diag.BagReporter{Bag: bag}}).Parse()
	if err == nil || tree != nil {
		t.Fatalf("expected error, got tree %v", tree)
	}
	perr, ok := err.(*parser.Error)
	if !ok {
		t.Fatalf("error %T is not *parser.Error", err)
	}
	if perr.Code != diag.SynExpectRBrace || perr.Line != 3 {
		t.Fatalf("got %s at line %d: %s", perr.Code.ID(), perr.Line, perr.Msg)
	}
	if want := "expected '}' to close the body of function 'f' opened on line 1"; perr.Msg != want {
		t.Fatalf("message: got %q, want %q", perr.Msg, want)
	}
}

func TestParseWithoutEOFToken(t *testing.T) {
	toks := []token.Token{
		{Kind: token.NumberLit, Text: "1", Line: 1},
		{Kind: token.Operator, Text: "Add", Line: 1},
		{Kind: token.NumberLit, Text: "2", Line: 1},
	}
	tree, err := parser.New(toks, parser.Options{}).Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tree.SExpr(); got != "Operator(Add)[Number(1) Number(2)]" {
		t.Fatalf("got %s", got)
	}
}

func TestParseEmpty(t *testing.T) {
	tree := parseOK(t, "")
	if tree.Len() != 0 {
		t.Fatalf("want empty tree, got %s", tree.SExpr())
	}
	tree, err := parser.New(nil, parser.Options{}).Parse()
	if err != nil || tree.Len() != 0 {
		t.Fatalf("nil tokens: tree=%v err=%v", tree, err)
	}
}

func TestParseSpans(t *testing.T) {
	tree := parseOK(t, "foo(1, 22)")
	call := tree.At(0)
	if call.Span.Start != 0 || call.Span.End != 10 {
		t.Fatalf("call span: got %s, want 0..10", call.Span)
	}
}

func TestParseTrace(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("trace.crane", []byte("x = 1\ny = 2")))
	toks, err := lexer.New(file, lexer.Options{}).Lex()
	if err != nil {
		t.Fatal(err)
	}
	rt := trace.NewRingTracer(16, trace.LevelDebug)
	if _, err := parser.New(toks, parser.Options{Tracer: rt}).Parse(); err != nil {
		t.Fatal(err)
	}
	var end *trace.Event
	for _, ev := range rt.Snapshot() {
		if ev.Kind == trace.KindSpanEnd && ev.Name == "parse" {
			end = &ev
		}
	}
	if end == nil {
		t.Fatal("no parse span recorded")
	}
	if end.Extra["nodes"] != "2" {
		t.Fatalf("nodes extra: got %q", end.Extra["nodes"])
	}
}

func TestParseDeterministic(t *testing.T) {
	src := "def f(a, b) { if (a < b) { x = a * (b + 1) } }\nf(1, 2)"
	first := parseOK(t, src).SExpr()
	for range 5 {
		if got := parseOK(t, src).SExpr(); got != first {
			t.Fatalf("non-deterministic parse:\n%s\nvs\n%s", got, first)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	src := []byte("def f(a, b) {\n  if (a < b) { x = a * (b + 1) - foo(a, 2) }\n}\n")
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bench.crane", src))
	toks, err := lexer.New(file, lexer.Options{}).Lex()
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for range b.N {
		if _, err := parser.New(toks, parser.Options{}).Parse(); err != nil {
			b.Fatal(err)
		}
	}
}

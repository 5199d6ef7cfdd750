package parser

import (
	"strconv"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/source"
	"crane/internal/token"
	"crane/internal/trace"
)

type Options struct {
	Reporter diag.Reporter // получает и фатальные ошибки, и предупреждения
	Tracer   trace.Tracer
	// TraceParent is the span the "parse" pass span hangs under.
	TraceParent uint64
}

// Parser — состояние парсера на одну последовательность токенов.
// Одноразовый: New, затем один вызов Parse.
type Parser struct {
	tokens []token.Token
	pos    int
	opts   Options
	tree   *ast.Tree
	warns  int
}

func New(tokens []token.Token, opts Options) *Parser {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Parser{
		tokens: tokens,
		opts:   opts,
		tree:   ast.NewTree(),
	}
}

// Parse classifies top-level tokens until EOF and returns the tree.
// The first fatal problem stops the run; no tree is returned then.
func (p *Parser) Parse() (*ast.Tree, error) {
	span := trace.Begin(p.opts.Tracer, trace.ScopePass, "parse", p.opts.TraceParent)

	for {
		tok := p.next()
		if tok.Kind == token.EOF {
			break
		}
		node, err := p.parseToken(tok)
		if err != nil {
			span.End("error")
			return nil, err
		}
		p.tree.Add(node)
	}

	span.WithExtra("nodes", strconv.Itoa(p.tree.Len())).
		WithExtra("warnings", strconv.Itoa(p.warns)).
		End("")
	return p.tree, nil
}

// peek возвращает следующий токен, не съедая его; за концом — синтетический EOF.
func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.eof()
}

// next съедает следующий токен; за концом остаётся на синтетическом EOF.
func (p *Parser) next() token.Token {
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++
		return tok
	}
	return p.eof()
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) eof() token.Token {
	if len(p.tokens) == 0 {
		return token.Token{Kind: token.EOF, Line: 1}
	}
	last := p.tokens[len(p.tokens)-1]
	return token.Token{
		Kind: token.EOF,
		Line: last.Line,
		Span: source.Span{File: last.Span.File, Start: last.Span.End, End: last.Span.End},
	}
}

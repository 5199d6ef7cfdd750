package parser

import (
	"fmt"

	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/token"
)

// parseDef: def name(params...) { body }
func (p *Parser) parseDef(kw token.Token) (*ast.Node, error) {
	name, err := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name after 'def'")
	if err != nil {
		return nil, err
	}
	what := "function '" + name.Text + "'"
	fn := ast.NewValued(ast.NodeFunction, name.Text, kw.Line, kw.Span.Cover(name.Span))

	if _, err := p.expect(token.LParen, diag.SynExpectLParen, "expected '(' after the name of "+what); err != nil {
		return nil, err
	}
	if err := p.parseList(fn, "the parameter list of "+what, "parameters"); err != nil {
		return nil, err
	}
	open, err := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' to open the body of "+what)
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(open, what)
	if err != nil {
		return nil, err
	}
	fn.AddChild(body)
	return fn, nil
}

// parseIf: if (cond) { body }
func (p *Parser) parseIf(kw token.Token) (*ast.Node, error) {
	if _, err := p.expect(token.LParen, diag.SynExpectLParen, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	condTok := p.next()
	switch condTok.Kind {
	case token.EOF, token.RParen, token.Comma, token.LBrace, token.RBrace:
		return nil, p.fail(diag.SynExpectExpression, condTok, "expected condition in 'if', found "+condTok.Describe())
	}
	cond, err := p.parseToken(condTok)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen, diag.SynExpectRParen, "expected ')' after the 'if' condition"); err != nil {
		return nil, err
	}
	open, err := p.expect(token.LBrace, diag.SynExpectLBrace, "expected '{' to open the 'if' body")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(open, "'if'")
	if err != nil {
		return nil, err
	}
	return ast.NewNode(ast.NodeConditional, kw.Line, kw.Span, cond, body), nil
}

// parseBlock: '{' уже съедена. Глубина считается явно, вложенные '{' '}'
// не закрывают блок раньше времени; остальные токены классифицируются.
func (p *Parser) parseBlock(open token.Token, owner string) (*ast.Node, error) {
	block := ast.NewNode(ast.NodeBlock, open.Line, open.Span)
	depth := 1
	for {
		tok := p.next()
		switch tok.Kind {
		case token.EOF:
			return nil, p.fail(diag.SynExpectRBrace, tok,
				fmt.Sprintf("expected '}' to close the body of %s opened on line %d", owner, open.Line))
		case token.LBrace:
			depth++
			continue
		case token.RBrace:
			depth--
			if depth == 0 {
				block.Span = block.Span.Cover(tok.Span)
				return block, nil
			}
			continue
		}
		node, err := p.parseToken(tok)
		if err != nil {
			return nil, err
		}
		block.AddChild(node)
	}
}

package parser

import (
	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/token"
)

// parseToken классифицирует уже съеденный токен и, при необходимости,
// дочитывает конструкцию целиком.
func (p *Parser) parseToken(tok token.Token) (*ast.Node, error) {
	switch tok.Kind {
	case token.NumberLit, token.StringLit, token.CharLit, token.True, token.False, token.None:
		if p.at(token.Operator) {
			return p.parseExpression(tok)
		}
		return literalLeaf(tok), nil

	case token.Ident:
		return p.parseIdent(tok)

	case token.Operator:
		return ast.NewLeaf(ast.NodeOperator, tok.Text, tok.Line, tok.Span), nil

	case token.LParen:
		return p.parseExpression(tok)

	case token.Keyword:
		switch {
		case tok.IsKeyword("def"):
			return p.parseDef(tok)
		case tok.IsKeyword("if"):
			return p.parseIf(tok)
		}
		return ast.NewLeaf(ast.NodeKeyword, tok.Text, tok.Line, tok.Span), nil
	}

	p.warn(diag.SynUnexpectedToken, tok, "unexpected "+tok.Describe()+" in statement position")
	return ast.NewNode(ast.NodeErr, tok.Line, tok.Span), nil
}

// parseIdent различает вызов, переприсваивание, выражение и голый идентификатор
// по следующему токену.
func (p *Parser) parseIdent(name token.Token) (*ast.Node, error) {
	next := p.peek()
	switch {
	case next.Kind == token.LParen:
		p.next()
		call, err := p.parseCall(name)
		if err != nil {
			return nil, err
		}
		if p.at(token.Operator) {
			return p.continueExpression(call)
		}
		return call, nil

	case next.IsOp("Eq"):
		p.next()
		return p.parseReassignment(name, next)

	case next.Kind == token.Operator:
		return p.parseExpression(name)
	}
	return ast.NewLeaf(ast.NodeIdentifier, name.Text, name.Line, name.Span), nil
}

func (p *Parser) parseReassignment(name, eq token.Token) (*ast.Node, error) {
	first := p.peek()
	if !first.IsOperand() && first.Kind != token.LParen && first.Kind != token.Operator {
		return nil, p.fail(diag.SynExpectExpression, first,
			"expected expression after '=' in assignment to '"+name.Text+"', found "+first.Describe())
	}
	p.next()
	rhs, err := p.parseExpression(first)
	if err != nil {
		return nil, err
	}
	node := ast.NewNode(ast.NodeReassignment, name.Line, name.Span.Cover(eq.Span),
		ast.NewLeaf(ast.NodeIdentifier, name.Text, name.Line, name.Span))
	node.AddChild(rhs)
	return node, nil
}

// literalLeaf: числа и строки несут текст, символ становится строкой,
// True/False/None — ключевыми словами с канонической записью.
func literalLeaf(tok token.Token) *ast.Node {
	switch tok.Kind {
	case token.NumberLit:
		return ast.NewLeaf(ast.NodeNumber, tok.Text, tok.Line, tok.Span)
	case token.StringLit, token.CharLit:
		return ast.NewLeaf(ast.NodeString, tok.Text, tok.Line, tok.Span)
	case token.True:
		return ast.NewLeaf(ast.NodeKeyword, "True", tok.Line, tok.Span)
	case token.False:
		return ast.NewLeaf(ast.NodeKeyword, "False", tok.Line, tok.Span)
	case token.None:
		return ast.NewLeaf(ast.NodeKeyword, "None", tok.Line, tok.Span)
	case token.Ident:
		return ast.NewLeaf(ast.NodeIdentifier, tok.Text, tok.Line, tok.Span)
	}
	return ast.NewNode(ast.NodeErr, tok.Line, tok.Span)
}

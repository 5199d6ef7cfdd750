package parser

import (
	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/token"
)

// parseCall: имя и '(' уже съедены.
func (p *Parser) parseCall(name token.Token) (*ast.Node, error) {
	call := ast.NewValued(ast.NodeFunctionCall, name.Text, name.Line, name.Span)
	if err := p.parseList(call, "call to '"+name.Text+"'", "arguments"); err != nil {
		return nil, err
	}
	return call, nil
}

// parseList разбирает элементы через обязательные запятые до ')' и
// добавляет их к owner. '(' уже съедена; ')' съедается здесь.
func (p *Parser) parseList(owner *ast.Node, what, items string) error {
	if p.at(token.RParen) {
		owner.Span = owner.Span.Cover(p.next().Span)
		return nil
	}
	for {
		tok := p.next()
		switch tok.Kind {
		case token.EOF:
			return p.fail(diag.SynExpectRParen, tok, "expected ')' to close "+what+", found end of file")
		case token.RParen, token.Comma:
			return p.fail(diag.SynExpectExpression, tok, "expected one of the "+items+" of "+what+", found "+tok.Describe())
		}

		item, err := p.parseToken(tok)
		if err != nil {
			return err
		}
		owner.AddChild(item)

		sep := p.peek()
		switch sep.Kind {
		case token.Comma:
			p.next()
		case token.RParen:
			owner.Span = owner.Span.Cover(p.next().Span)
			return nil
		case token.EOF:
			return p.fail(diag.SynExpectRParen, sep, "expected ')' to close "+what+", found end of file")
		default:
			return p.fail(diag.SynExpectComma, sep, "expected a comma between "+items+" of "+what+", found "+sep.Describe())
		}
	}
}

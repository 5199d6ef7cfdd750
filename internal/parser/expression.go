package parser

import (
	"crane/internal/ast"
	"crane/internal/diag"
	"crane/internal/token"
)

// exprState — стек вывода и стек операторов одного вызова shunting-yard.
type exprState struct {
	out           []*ast.Node
	ops           []token.Token
	expectOperand bool
}

// parseExpression: first уже съеден (операнд, '(' или оператор).
func (p *Parser) parseExpression(first token.Token) (*ast.Node, error) {
	e := &exprState{expectOperand: true}
	if err := p.exprToken(e, first); err != nil {
		return nil, err
	}
	return p.exprRun(e, token.Token{})
}

// continueExpression продолжает выражение с готовым левым операндом (вызовом).
func (p *Parser) continueExpression(left *ast.Node) (*ast.Node, error) {
	e := &exprState{out: []*ast.Node{left}}
	return p.exprRun(e, token.Token{})
}

// parseGroup: '(' уже съедена; вложенный вызов съедает свою ')'.
func (p *Parser) parseGroup(open token.Token) (*ast.Node, error) {
	e := &exprState{expectOperand: true}
	return p.exprRun(e, open)
}

// exprToken обрабатывает один съеденный токен выражения.
func (p *Parser) exprToken(e *exprState, tok token.Token) error {
	switch {
	case tok.Kind == token.Operator:
		prec := opPrecedence(tok.Text)
		for len(e.ops) > 0 && opPrecedence(e.ops[len(e.ops)-1].Text) >= prec {
			if err := p.fold(e); err != nil {
				return err
			}
		}
		e.ops = append(e.ops, tok)
		e.expectOperand = true

	case tok.Kind == token.LParen:
		sub, err := p.parseGroup(tok)
		if err != nil {
			return err
		}
		e.out = append(e.out, sub)
		e.expectOperand = false

	case tok.IsIdent() && p.at(token.LParen):
		p.next()
		call, err := p.parseCall(tok)
		if err != nil {
			return err
		}
		e.out = append(e.out, call)
		e.expectOperand = false

	case tok.IsOperand():
		e.out = append(e.out, literalLeaf(tok))
		e.expectOperand = false
	}
	return nil
}

// exprRun читает токены, пока они принадлежат выражению, затем сворачивает стек.
// group.Kind == LParen означает вложенный вызов, который обязан съесть ')'.
func (p *Parser) exprRun(e *exprState, group token.Token) (*ast.Node, error) {
	nested := group.Kind == token.LParen
	closed := false

loop:
	for {
		tok := p.peek()
		switch {
		case tok.IsOperand(), tok.Kind == token.LParen:
			// операнд там, где ждали оператор, — граница оператора
			if !e.expectOperand {
				break loop
			}
		case tok.Kind == token.Operator:
		case tok.Kind == token.RParen:
			if nested {
				p.next()
				closed = true
			}
			break loop
		case tok.Kind == token.Comma, tok.Kind == token.LBrace, tok.Kind == token.RBrace,
			tok.Kind == token.Keyword, tok.Kind == token.EOF:
			break loop
		default:
			// прочие токены внутри выражения пропускаются
			p.next()
			continue
		}
		p.next()
		if err := p.exprToken(e, tok); err != nil {
			return nil, err
		}
	}

	if nested && !closed {
		found := p.peek()
		return nil, p.fail(diag.SynExpectRParen, found,
			"expected ')' to close '(' opened on line "+itoa(group.Line)+", found "+found.Describe())
	}

	for len(e.ops) > 0 {
		if err := p.fold(e); err != nil {
			return nil, err
		}
	}
	if len(e.out) != 1 {
		at := group
		if len(e.out) > 0 {
			at = token.Token{Line: e.out[len(e.out)-1].Line, Span: e.out[len(e.out)-1].Span}
		} else if !nested {
			at = p.peek()
		}
		return nil, p.fail(diag.SynMalformedExpression, at, "malformed expression")
	}
	return e.out[0], nil
}

// fold снимает оператор со стека и строит узел Operator(op)[left, right].
func (p *Parser) fold(e *exprState) error {
	op := e.ops[len(e.ops)-1]
	e.ops = e.ops[:len(e.ops)-1]
	if len(e.out) < 2 {
		return p.fail(diag.SynMalformedExpression, op, "malformed expression: operator '"+op.Text+"' is missing an operand")
	}
	right := e.out[len(e.out)-1]
	left := e.out[len(e.out)-2]
	e.out = e.out[:len(e.out)-2]

	node := ast.NewValued(ast.NodeOperator, op.Text, op.Line, op.Span)
	node.AddChild(left)
	node.AddChild(right)
	e.out = append(e.out, node)
	return nil
}

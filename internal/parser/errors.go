package parser

import (
	"fmt"

	"crane/internal/diag"
	"crane/internal/source"
	"crane/internal/token"
)

// Error is a fatal syntax problem.
type Error struct {
	Code diag.Code
	Line uint32
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// fail строит ошибку у токена at, репортит её и возвращает.
func (p *Parser) fail(code diag.Code, at token.Token, msg string) *Error {
	e := &Error{Code: code, Line: at.Line, Span: at.Span, Msg: msg}
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, at.Span, msg).Emit()
	}
	return e
}

// warn репортит нефатальную проблему.
func (p *Parser) warn(code diag.Code, at token.Token, msg string) {
	p.warns++
	if p.opts.Reporter != nil {
		diag.ReportWarning(p.opts.Reporter, code, at.Span, msg).Emit()
	}
}

// expect — ожидаем конкретный токен. Если нет, не съедаем и возвращаем ошибку.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, error) {
	if p.at(k) {
		return p.next(), nil
	}
	found := p.peek()
	return token.Token{}, p.fail(code, found, fmt.Sprintf("%s, found %s", msg, found.Describe()))
}

package lexer

import (
	"fmt"
	"strings"

	"crane/internal/diag"
	"crane/internal/source"
)

// Error is a fatal lexical problem: kind, line and the offending source line.
type Error struct {
	Code    diag.Code
	Line    uint32
	Span    source.Span
	Msg     string
	Snippet string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ErrorList carries the batch produced by bracket-balance validation.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	parts := make([]string, 0, len(l))
	for _, e := range l {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap lets errors.As reach the individual items.
func (l ErrorList) Unwrap() []error {
	out := make([]error, len(l))
	for i, e := range l {
		out[i] = e
	}
	return out
}

func (lx *Lexer) fail(code diag.Code, m Mark, msg string) *Error {
	e := &Error{
		Code:    code,
		Line:    m.Line,
		Span:    lx.cursor.SpanFrom(m),
		Msg:     msg,
		Snippet: lx.file.GetLine(m.Line),
	}
	lx.report(e)
	return e
}

package token

import (
	"fmt"

	"crane/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Text string
	Line uint32
	Span source.Span
}

// SameType compares kind and payload, ignoring position.
func (t Token) SameType(other Token) bool {
	return t.Kind == other.Kind && t.Text == other.Text
}

// IsLiteral reports whether the token is a number, string, character, boolean or None literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NumberLit, StringLit, CharLit, True, False, None:
		return true
	default:
		return false
	}
}

// IsOperand reports whether the token may stand as a leaf inside an expression.
func (t Token) IsOperand() bool {
	return t.IsLiteral() || t.Kind == Ident
}

// IsOp reports whether the token is the operator with the given name.
func (t Token) IsOp(name string) bool {
	return t.Kind == Operator && t.Text == name
}

// IsKeyword reports whether the token is the keyword kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Kind == Keyword && t.Text == kw
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Describe renders the token the way diagnostics mention it.
func (t Token) Describe() string {
	switch t.Kind {
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case Comma:
		return "','"
	case Dot:
		return "'.'"
	case EOF:
		return "end of file"
	case StringLit:
		return fmt.Sprintf("string %q", t.Text)
	case CharLit:
		return fmt.Sprintf("character %q", t.Text)
	}
	if t.Kind.HasPayload() {
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return t.Kind.String()
}

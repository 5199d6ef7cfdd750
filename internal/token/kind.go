package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero value; a successful lex never produces it.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// LParen represents '('.
	LParen
	// RParen represents ')'.
	RParen
	// LBrace represents '{'.
	LBrace
	// RBrace represents '}'.
	RBrace
	// Comma represents ','.
	Comma
	// Dot represents '.'.
	Dot

	// Operator carries the operator name (Add, EqEq, ...) in Text.
	Operator
	// Ident represents an identifier.
	Ident
	// Keyword represents a reserved word (if, def, ...).
	Keyword
	// DataType carries a built-in type name. Reserved for the emitter, the lexer does not produce it.
	DataType

	// StringLit represents a decoded string literal.
	StringLit
	// NumberLit represents a decimal integer in its raw spelling.
	NumberLit
	// CharLit represents a decoded character literal.
	CharLit
	// True represents True/true.
	True
	// False represents False/false.
	False
	// None represents None.
	None
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	LParen:    "LParen",
	RParen:    "RParen",
	LBrace:    "LBrace",
	RBrace:    "RBrace",
	Comma:     "Comma",
	Dot:       "Dot",
	Operator:  "Operator",
	Ident:     "Ident",
	Keyword:   "Keyword",
	DataType:  "DataType",
	StringLit: "StringLit",
	NumberLit: "NumberLit",
	CharLit:   "CharLit",
	True:      "True",
	False:     "False",
	None:      "None",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// HasPayload reports whether tokens of this kind carry Text.
func (k Kind) HasPayload() bool {
	switch k {
	case Operator, Ident, Keyword, DataType, StringLit, NumberLit, CharLit:
		return true
	default:
		return false
	}
}

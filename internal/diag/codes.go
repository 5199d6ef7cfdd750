package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnexpectedChar     Code = 1001
	LexUnterminatedString Code = 1002
	LexInvalidCharLiteral Code = 1003
	LexInvalidEscape      Code = 1004
	LexInvalidIdentChar   Code = 1005

	// Синтаксические
	SynInfo                Code = 2000
	SynUnexpectedToken     Code = 2001
	SynUnclosedParen       Code = 2002
	SynUnclosedBrace       Code = 2003
	SynUnmatchedParen      Code = 2004
	SynUnmatchedBrace      Code = 2005
	SynExpectComma         Code = 2006
	SynExpectIdentifier    Code = 2007
	SynExpectLParen        Code = 2008
	SynExpectRParen        Code = 2009
	SynExpectLBrace        Code = 2010
	SynExpectRBrace        Code = 2011
	SynExpectExpression    Code = 2012
	SynMalformedExpression Code = 2013

	// IO
	IOLoadFileError Code = 4001

	// Проект
	ProjInvalidManifest   Code = 5001
	ProjToolchainMismatch Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnexpectedChar:      "Unexpected character",
		LexUnterminatedString:  "Unterminated string literal",
		LexInvalidCharLiteral:  "Invalid character literal",
		LexInvalidEscape:       "Invalid escape sequence",
		LexInvalidIdentChar:    "Invalid character in identifier",
		SynInfo:                "Syntax information",
		SynUnexpectedToken:     "Unexpected token",
		SynUnclosedParen:       "Unclosed parenthesis",
		SynUnclosedBrace:       "Unclosed brace",
		SynUnmatchedParen:      "Unmatched closing parenthesis",
		SynUnmatchedBrace:      "Unmatched closing brace",
		SynExpectComma:         "Expected ','",
		SynExpectIdentifier:    "Expected identifier",
		SynExpectLParen:        "Expected '('",
		SynExpectRParen:        "Expected ')'",
		SynExpectLBrace:        "Expected '{'",
		SynExpectRBrace:        "Expected '}'",
		SynExpectExpression:    "Expected expression",
		SynMalformedExpression: "Malformed expression",
		IOLoadFileError:        "I/O load file error",
		ProjInvalidManifest:    "Invalid project manifest",
		ProjToolchainMismatch:  "Toolchain version does not satisfy the manifest",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

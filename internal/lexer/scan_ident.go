package lexer

import (
	"crane/internal/diag"
	"crane/internal/token"
)

// identStop — символы, на которых идентификатор заканчивается без ошибки.
var identStop = [256]bool{
	'(': true, ')': true, '{': true, '}': true, '[': true, ']': true,
	'<': true, '>': true, ',': true, ';': true, '=': true, ':': true,
	'+': true, '-': true, '*': true, '/': true,
	' ': true, '\t': true, '\r': true, '\n': true,
}

// scanIdentOrKeyword: [A-Za-z][A-Za-z0-9_.]*, затем проверка по таблице ключевых слов.
func (lx *Lexer) scanIdentOrKeyword() (token.Token, *Error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump()

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isIdentContinue(b) {
			lx.cursor.Bump()
			continue
		}
		if identStop[b] || b >= utf8RuneSelf || !isASCIIPunct(b) {
			break
		}
		lx.cursor.Bump()
		return token.Token{}, lx.fail(diag.LexInvalidIdentChar, start, "invalid character in identifier: '"+string(rune(b))+"'")
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	kind, ok := token.LookupKeyword(text)
	switch {
	case !ok:
		return lx.emit(token.Ident, text, start), nil
	case kind == token.Keyword:
		return lx.emit(token.Keyword, text, start), nil
	default:
		// True/False/None не несут текста
		return lx.emit(kind, "", start), nil
	}
}

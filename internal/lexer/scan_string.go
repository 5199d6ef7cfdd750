package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"crane/internal/diag"
	"crane/internal/token"
)

// escapeValue decodes the byte after '\'. ok is false for bytes outside the table.
func escapeValue(b byte) (byte, bool) {
	switch b {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '\\':
		return '\\', true
	}
	return b, false
}

// scanString читает "..." и возвращает уже раскодированное значение.
// Неизвестный escape пропускает символ без обратного слеша.
func (lx *Lexer) scanString() (token.Token, *Error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'

	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch b {
		case '"':
			return lx.emit(token.StringLit, sb.String(), start), nil
		case '\\':
			if lx.cursor.EOF() {
				return token.Token{}, lx.fail(diag.LexUnterminatedString, start, "unterminated string")
			}
			v, _ := escapeValue(lx.cursor.Bump())
			sb.WriteByte(v)
		default:
			sb.WriteByte(b)
		}
	}
	return token.Token{}, lx.fail(diag.LexUnterminatedString, start, "unterminated string")
}

// scanChar читает 'x' или '\n': ровно один символ и обязательная закрывающая кавычка.
func (lx *Lexer) scanChar() (token.Token, *Error) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''

	if lx.cursor.EOF() {
		return token.Token{}, lx.fail(diag.LexInvalidCharLiteral, start, "invalid character literal")
	}

	var value string
	if lx.cursor.Peek() == '\\' {
		lx.cursor.Bump()
		if lx.cursor.EOF() {
			return token.Token{}, lx.fail(diag.LexInvalidCharLiteral, start, "invalid character literal")
		}
		e := lx.cursor.Bump()
		v, ok := escapeValue(e)
		if !ok {
			return token.Token{}, lx.fail(diag.LexInvalidEscape, start, "invalid escape character: \\"+string(rune(e)))
		}
		value = string([]byte{v})
	} else {
		r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
		if r == utf8.RuneError && size <= 1 {
			lx.cursor.Bump()
			return token.Token{}, lx.fail(diag.LexInvalidCharLiteral, start, "invalid character literal")
		}
		for range size {
			lx.cursor.Bump()
		}
		value = string(r)
	}

	if !lx.cursor.Eat('\'') {
		return token.Token{}, lx.fail(diag.LexInvalidCharLiteral, start, "invalid character literal: expected closing ' after "+strconv.Quote(value))
	}
	return lx.emit(token.CharLit, value, start), nil
}

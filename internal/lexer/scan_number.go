package lexer

import (
	"crane/internal/token"
)

// scanNumber: [1-9][0-9]*, текст хранится как есть, разбор откладывается до эмиттера.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	return lx.emit(token.NumberLit, string(lx.file.Content[sp.Start:sp.End]), start)
}

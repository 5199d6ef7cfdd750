package lexer

import (
	"crane/internal/token"
)

var punctKinds = [256]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	'.': token.Dot,
}

func isPunct(b byte) bool { return punctKinds[b] != token.Invalid }

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	return lx.emit(punctKinds[ch], "", start)
}

// Жадность: символ оператора и следующий '=' образуют составной оператор (+= → AddEq, == → EqEq).
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	name, _ := token.OperatorName(ch, lx.cursor.Eat('='))
	return lx.emit(token.Operator, name, start)
}

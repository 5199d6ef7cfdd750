package lexer

import (
	"crane/internal/diag"
	"crane/internal/token"
)

type bracketPair struct {
	open, close         token.Kind
	unclosed, unmatched diag.Code
	openText, closeText string
}

var bracketPairs = [...]bracketPair{
	{token.LParen, token.RParen, diag.SynUnclosedParen, diag.SynUnmatchedParen, "(", ")"},
	{token.LBrace, token.RBrace, diag.SynUnclosedBrace, diag.SynUnmatchedBrace, "{", "}"},
}

// CheckBalance сверяет количество открывающих и закрывающих скобок.
// Если оно различается, для каждой лишней скобки возвращается отдельная ошибка,
// начиная с самой поздней. Какие именно скобки лишние, определяет стек.
// Snippet заполняет вызывающий.
func CheckBalance(tokens []token.Token) []*Error {
	var errs []*Error
	for _, pair := range bracketPairs {
		var stack, stray []token.Token
		opens, closes := 0, 0
		for _, tok := range tokens {
			switch tok.Kind {
			case pair.open:
				opens++
				stack = append(stack, tok)
			case pair.close:
				closes++
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				} else {
					stray = append(stray, tok)
				}
			}
		}
		switch {
		case opens > closes:
			errs = appendExcess(errs, stack, opens-closes, pair.unclosed, "unclosed '"+pair.openText+"'")
		case closes > opens:
			errs = appendExcess(errs, stray, closes-opens, pair.unmatched, "unmatched '"+pair.closeText+"'")
		}
	}
	return errs
}

func appendExcess(errs []*Error, toks []token.Token, n int, code diag.Code, msg string) []*Error {
	for i := len(toks) - 1; i >= 0 && i >= len(toks)-n; i-- {
		errs = append(errs, &Error{
			Code: code,
			Line: toks[i].Line,
			Span: toks[i].Span,
			Msg:  msg,
		})
	}
	return errs
}

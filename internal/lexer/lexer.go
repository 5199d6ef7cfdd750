package lexer

import (
	"strconv"
	"unicode/utf8"

	"crane/internal/diag"
	"crane/internal/source"
	"crane/internal/token"
	"crane/internal/trace"
)

// Lexer is single-use: construct with New, call Lex once.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	tokens []token.Token
}

func New(file *source.File, opts Options) *Lexer {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		tokens: make([]token.Token, 0, len(file.Content)/4+1),
	}
}

// Line returns the current line counter.
func (lx *Lexer) Line() uint32 { return lx.cursor.Line }

// Lex consumes the whole file and returns the token sequence terminated by EOF.
// The first malformed literal or character stops the run with *Error.
// Bracket imbalance is reported in full and returned as ErrorList.
// On any error no tokens are returned.
func (lx *Lexer) Lex() ([]token.Token, error) {
	span := trace.Begin(lx.opts.Tracer, trace.ScopePass, "lex", lx.opts.TraceParent)

	for {
		lx.skipWhitespace()
		if lx.cursor.EOF() {
			break
		}
		tok, err := lx.next()
		if err != nil {
			span.End("error")
			return nil, err
		}
		lx.tokens = append(lx.tokens, tok)
	}

	lx.tokens = append(lx.tokens, token.Token{
		Kind: token.EOF,
		Line: lx.cursor.Line,
		Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
	})

	if errs := CheckBalance(lx.tokens); len(errs) > 0 {
		for _, e := range errs {
			e.Snippet = lx.file.GetLine(e.Line)
			lx.report(e)
		}
		span.WithExtra("unbalanced", strconv.Itoa(len(errs))).End("error")
		return nil, ErrorList(errs)
	}

	span.WithExtra("tokens", strconv.Itoa(len(lx.tokens))).End("")
	return lx.tokens, nil
}

func (lx *Lexer) skipWhitespace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r', '\n':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// next сканирует один токен; пробелы уже пропущены, курсор не в EOF.
func (lx *Lexer) next() (token.Token, *Error) {
	ch := lx.cursor.Peek()
	switch {
	case isPunct(ch):
		return lx.scanPunct(), nil
	case token.IsOperatorStart(ch):
		return lx.scanOperator(), nil
	case ch == '"':
		return lx.scanString()
	case ch == '\'':
		return lx.scanChar()
	case ch >= '1' && ch <= '9':
		return lx.scanNumber(), nil
	case isLetter(ch):
		return lx.scanIdentOrKeyword()
	}

	start := lx.cursor.Mark()
	r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
	for range size {
		lx.cursor.Bump()
	}
	if r == utf8.RuneError && size <= 1 {
		return token.Token{}, lx.fail(diag.LexUnexpectedChar, start, "unexpected byte 0x"+strconv.FormatUint(uint64(ch), 16))
	}
	return token.Token{}, lx.fail(diag.LexUnexpectedChar, start, "unexpected character "+strconv.QuoteRune(r))
}

func (lx *Lexer) emit(kind token.Kind, text string, start Mark) token.Token {
	return token.Token{
		Kind: kind,
		Text: text,
		Line: start.Line,
		Span: lx.cursor.SpanFrom(start),
	}
}

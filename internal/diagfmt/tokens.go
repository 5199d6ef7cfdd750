package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"crane/internal/source"
	"crane/internal/token"
)

type TokenOutput struct {
	Kind string      `json:"kind"`
	Text string      `json:"text,omitempty"`
	Line uint32      `json:"line"`
	Span source.Span `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Kind.HasPayload() {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if fs != nil {
			startPos, endPos := fs.Resolve(tok.Span)
			fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		} else {
			fmt.Fprintf(w, " line %d", tok.Line)
		}
		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// TokenOutputs converts tokens up to and including EOF into their JSON form.
func TokenOutputs(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Line: tok.Line,
			Span: tok.Span,
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(TokenOutputs(tokens))
}

// TokenFileOutput is one file of a directory tokenize run.
type TokenFileOutput struct {
	File   string        `json:"file"`
	Tokens []TokenOutput `json:"tokens"`
}

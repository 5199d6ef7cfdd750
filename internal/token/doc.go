// Package token defines lexical token kinds for the crane front end.
// Invariants:
//   - Token.Text carries the payload for Operator, Ident, Keyword, StringLit,
//     NumberLit, CharLit and DataType; it is empty for every other kind.
//   - StringLit and CharLit text is the decoded value, escapes already applied.
//   - Token.Line is the 1-based line on which the token starts.
//   - Tokens are values and are never mutated after the lexer emits them.
package token

// Package diag defines the diagnostic model shared by the lexer, the parser
// and the driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier with a stable string form (codes.go).
//     Ranges: 1xxx lexer, 2xxx syntax, 4xxx IO, 5xxx project.
//   - Message: short human text.
//   - Primary: the source.Span pointing to the issue.
//   - Notes: optional secondary spans with context.
//
// # Emitting diagnostics
//
// Phases talk to a Reporter and never to storage directly. ReportError /
// ReportWarning return a ReportBuilder that can collect notes before Emit.
// BagReporter aggregates into a Bag, which supports limits, sorting and
// severity counts.
//
// Besides the one-line short format (short.go), package diag does no
// formatting or IO; rendering lives in internal/diagfmt.
package diag

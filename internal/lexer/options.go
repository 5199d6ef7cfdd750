package lexer

import (
	"crane/internal/diag"
	"crane/internal/trace"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: ошибки всё равно возвращаются из Lex
	Tracer   trace.Tracer  // nil означает trace.Nop
	// TraceParent is the span the "lex" pass span hangs under.
	TraceParent uint64
}

func (lx *Lexer) report(e *Error) {
	if lx.opts.Reporter == nil || e == nil {
		return
	}
	diag.ReportError(lx.opts.Reporter, e.Code, e.Span, e.Msg).Emit()
}

// Package trace provides span-based tracing for the crane front end.
//
// Enable it from the CLI:
//
//	crane parse --trace=- --trace-level=phase main.crane
//
// Implementations: Nop (disabled), StreamTracer (writes each event as it
// happens, text or NDJSON) and RingTracer (keeps the last N events in memory).
//
// Levels: off, error, phase (driver and pass spans), detail (adds per-file
// spans), debug (everything).
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace

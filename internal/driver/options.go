package driver

import (
	"context"
	"time"

	"crane/internal/observ"
	"crane/internal/trace"
)

// Options tune a driver run. The zero value is usable.
type Options struct {
	MaxDiagnostics int // на файл; <= 0 — значение Bag по умолчанию
	Jobs           int // параллелизм директорных прогонов; <= 0 — GOMAXPROCS

	// Tracer overrides the tracer found in the context.
	Tracer trace.Tracer
	Timer  *observ.Timer
	// Cache, if set, serves parse results for unchanged files.
	Cache    *DiskCache
	Progress ProgressObserver
	// Debounce coalesces bursts of file events in Watch; 0 means DefaultDebounce.
	Debounce time.Duration
}

const DefaultDebounce = 150 * time.Millisecond

func (o Options) tracer(ctx context.Context) trace.Tracer {
	if o.Tracer != nil {
		return o.Tracer
	}
	return trace.FromContext(ctx)
}

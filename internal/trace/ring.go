package trace

import (
	"errors"
	"io"
	"sync"
)

const defaultRingSize = 4096

// RingTracer хранит последние N событий. С заданным sink они выводятся
// только при Close: удобно для долгих watch-сессий, где нужен хвост.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	stored int
	level  Level

	sink   io.Writer
	format Format
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if ev == nil || !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	t.stored = min(t.stored+1, len(t.buf))
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.stored)
	first := (t.next - t.stored + len(t.buf)) % len(t.buf)
	for i := range t.stored {
		out = append(out, t.buf[(first+i)%len(t.buf)])
	}
	return out
}

// Dump writes the snapshot to w, one formatted event per line.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }

// Close dumps the ring into its sink, if any, and closes the sink.
func (t *RingTracer) Close() error {
	if t.sink == nil {
		return nil
	}
	err := t.Dump(t.sink, t.format)
	if c, ok := t.sink.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	t.sink = nil
	return err
}

func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }

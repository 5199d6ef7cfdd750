package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"crane/internal/source"
)

// Cursor идёт по байтам файла и считает строки (с единицы).
type Cursor struct {
	File *source.File
	Off  uint32
	Line uint32
	// Limit is the exclusive upper bound for Off.
	Limit uint32
}

func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{File: f, Line: 1, Limit: limit}
}

// byteAt returns the byte at Off+ahead, or ok=false past Limit.
func (c *Cursor) byteAt(ahead uint32) (b byte, ok bool) {
	i := c.Off + ahead
	if i >= c.Limit {
		return 0, false
	}
	return c.File.Content[i], true
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

// Peek возвращает текущий байт или 0 в конце файла.
func (c *Cursor) Peek() byte {
	b, _ := c.byteAt(0)
	return b
}

// Peek2 returns the current and the next byte; ok is false if either is missing.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if b1, ok = c.byteAt(1); !ok {
		return 0, 0, false
	}
	b0, _ = c.byteAt(0)
	return b0, b1, true
}

// Bump consumes one byte and returns it, or 0 at EOF.
func (c *Cursor) Bump() byte {
	b, ok := c.byteAt(0)
	if !ok {
		return 0
	}
	c.Off++
	if b == '\n' {
		c.Line++
	}
	return b
}

// Eat consumes the current byte only when it equals want.
func (c *Cursor) Eat(want byte) bool {
	if b, ok := c.byteAt(0); ok && b == want {
		c.Bump()
		return true
	}
	return false
}

// Mark запоминает позицию, чтобы потом получить Span или откатиться.
type Mark struct {
	Off  uint32
	Line uint32
}

func (c *Cursor) Mark() Mark { return Mark{Off: c.Off, Line: c.Line} }

func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: m.Off, End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off, c.Line = m.Off, m.Line }

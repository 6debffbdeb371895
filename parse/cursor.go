package parse

import (
	"bytes"

	"httpwire/rule"
)

// Cursor is a read-only view over an input buffer with a mutable position.
// Every parsing stage scans through one; it never copies the underlying
// buffer.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Peek returns up to n bytes ahead of the position without consuming them.
func (c *Cursor) Peek(n int) []byte {
	rest := c.buf[c.pos:]
	if n > len(rest) {
		n = len(rest)
	}
	return rest[:n]
}

// Advance consumes n bytes. It reports false (and consumes nothing) if fewer
// than n bytes remain.
func (c *Cursor) Advance(n int) bool {
	if n > c.Remaining() {
		return false
	}
	c.pos += n
	return true
}

// Find scans for delim from the current position and returns its offset
// relative to the position, or -1 if it is not present.
func (c *Cursor) Find(delim []byte) int {
	return bytes.Index(c.buf[c.pos:], delim)
}

// Remaining returns the count of unconsumed bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Consumed returns the count of consumed bytes.
func (c *Cursor) Consumed() int { return c.pos }

// Rest returns a view of the unconsumed bytes.
func (c *Cursor) Rest() []byte { return c.buf[c.pos:] }

// Take consumes and returns up to n bytes.
func (c *Cursor) Take(n int) []byte {
	b := c.Peek(n)
	c.pos += len(b)
	return b
}

// Line consumes and returns one CRLF-terminated line, excluding the
// terminator. It reports false without consuming anything when no full line
// is available yet.
func (c *Cursor) Line() (line []byte, ok bool) {
	end := c.Find(rule.CRLF)
	if end < 0 {
		return nil, false
	}

	line = c.buf[c.pos : c.pos+end]
	c.pos += end + len(rule.CRLF)
	return line, true
}

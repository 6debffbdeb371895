package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorPeek(t *testing.T) {
	cur := NewCursor([]byte("abcdef"))

	assert.Equal(t, []byte("abc"), cur.Peek(3))
	// Peeking does not consume.
	assert.Equal(t, []byte("abc"), cur.Peek(3))
	assert.Equal(t, []byte("abcdef"), cur.Peek(100))
	assert.Equal(t, 6, cur.Remaining())
}

func TestCursorAdvance(t *testing.T) {
	cur := NewCursor([]byte("abcdef"))

	require.True(t, cur.Advance(4))
	assert.Equal(t, []byte("ef"), cur.Rest())
	assert.Equal(t, 4, cur.Consumed())

	// Advancing past the end consumes nothing.
	assert.False(t, cur.Advance(3))
	assert.Equal(t, 2, cur.Remaining())

	require.True(t, cur.Advance(2))
	assert.Equal(t, 0, cur.Remaining())
}

func TestCursorFind(t *testing.T) {
	cur := NewCursor([]byte("ab\r\ncd"))

	assert.Equal(t, 2, cur.Find([]byte("\r\n")))

	require.True(t, cur.Advance(3))
	assert.Equal(t, -1, cur.Find([]byte("\r\n")))
}

func TestCursorTake(t *testing.T) {
	cur := NewCursor([]byte("abcd"))

	assert.Equal(t, []byte("abc"), cur.Take(3))
	assert.Equal(t, []byte("d"), cur.Take(3))
	assert.Empty(t, cur.Take(1))
}

func TestCursorLine(t *testing.T) {
	cur := NewCursor([]byte("first\r\nsecond\r\npartial"))

	line, ok := cur.Line()
	require.True(t, ok)
	assert.Equal(t, []byte("first"), line)

	line, ok = cur.Line()
	require.True(t, ok)
	assert.Equal(t, []byte("second"), line)

	// No full line buffered; nothing is consumed.
	_, ok = cur.Line()
	assert.False(t, ok)
	assert.Equal(t, []byte("partial"), cur.Rest())
}

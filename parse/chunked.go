package parse

import (
	"math"

	"httpwire/message"
	"httpwire/rule"

	"github.com/pkg/errors"
)

type chunkState uint8

const (
	chunkSize chunkState = iota
	chunkExt
	chunkSizeLF
	chunkData
	chunkDataCR
	chunkDataLF
	chunkTrailers
	chunkDone
)

// maxChunkSizeDigits bounds the chunk-size line before the configured size
// limit can even be checked, so a stream of hex digits with no terminator
// fails fast.
const maxChunkSizeDigits = 16

// chunkDecoder is the nested state machine for chunked transfer coding.
// It consumes whatever is available from the cursor and keeps its state
// across calls; a consumed byte is never parsed twice, and no chunk boundary
// requires the full chunk in one buffer.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-7.1
type chunkDecoder struct {
	opts Options

	state      chunkState
	size       int64
	sizeDigits int
	extLen     int

	remaining int64
	total     int64
	chunk     []byte
	chunks    [][]byte

	trailers     message.Fields
	trailerCount int
}

func newChunkDecoder(opts Options) *chunkDecoder {
	return &chunkDecoder{opts: opts}
}

// decode advances the state machine as far as the buffered input allows.
// done means the terminating zero chunk and its trailer section have been
// fully consumed.
func (d *chunkDecoder) decode(cur *Cursor) (done bool, err error) {
	for {
		switch d.state {
		case chunkSize:
			if err := d.readSize(cur); err != nil {
				return false, err
			}
			if d.state == chunkSize {
				return false, nil // out of input
			}

		case chunkExt:
			// Chunk extensions are recognized syntactically and otherwise
			// ignored.
			if err := d.skipExtension(cur); err != nil {
				return false, err
			}
			if d.state == chunkExt {
				return false, nil
			}

		case chunkSizeLF:
			b := cur.Peek(1)
			if len(b) == 0 {
				return false, nil
			}
			if b[0] != rule.LF {
				return false, errors.Wrap(ErrMalformedChunk, "chunk size line not terminated by CRLF")
			}
			cur.Advance(1)

			if d.size == 0 {
				d.state = chunkTrailers
				break
			}

			if d.total+d.size > d.opts.MaxBodySize {
				return false, errors.Wrap(ErrBodyTooLarge, "chunked body")
			}

			d.remaining = d.size
			d.chunk = make([]byte, 0, d.size)
			d.state = chunkData

		case chunkData:
			n := int64(cur.Remaining())
			if n > d.remaining {
				n = d.remaining
			}
			if n == 0 {
				return false, nil
			}

			d.chunk = append(d.chunk, cur.Take(int(n))...)
			d.remaining -= n
			d.total += n
			if d.remaining == 0 {
				d.state = chunkDataCR
			}

		case chunkDataCR:
			b := cur.Peek(1)
			if len(b) == 0 {
				return false, nil
			}
			if b[0] != rule.CR {
				return false, errors.Wrap(ErrMalformedChunk, "missing CRLF after chunk data")
			}
			cur.Advance(1)
			d.state = chunkDataLF

		case chunkDataLF:
			b := cur.Peek(1)
			if len(b) == 0 {
				return false, nil
			}
			if b[0] != rule.LF {
				return false, errors.Wrap(ErrMalformedChunk, "missing CRLF after chunk data")
			}
			cur.Advance(1)

			d.chunks = append(d.chunks, d.chunk)
			d.chunk = nil
			d.size = 0
			d.sizeDigits = 0
			d.extLen = 0
			d.state = chunkSize

		case chunkTrailers:
			done, err := d.readTrailers(cur)
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			d.state = chunkDone

		case chunkDone:
			return true, nil

		default:
			panic("unreachable chunk decoder state")
		}
	}
}

func (d *chunkDecoder) readSize(cur *Cursor) error {
	rest := cur.Rest()
	for i, c := range rest {
		switch c {
		case ';':
			if d.sizeDigits == 0 {
				return errors.Wrap(ErrMalformedChunk, "empty chunk size")
			}
			cur.Advance(i + 1)
			d.state = chunkExt
			return nil
		case rule.CR:
			if d.sizeDigits == 0 {
				return errors.Wrap(ErrMalformedChunk, "empty chunk size")
			}
			cur.Advance(i + 1)
			d.state = chunkSizeLF
			return nil
		default:
			val := rule.HexDigit(c)
			if val == 0xFF {
				return errors.Wrapf(ErrMalformedChunk, "invalid chunk size character %#x", c)
			}

			// The next digit must not overflow int64; a wrapped negative
			// size would slip past every limit below.
			if d.size > (math.MaxInt64-int64(val))>>4 {
				return ErrChunkSizeTooLarge
			}

			d.size = d.size<<4 | int64(val)
			if d.sizeDigits++; d.sizeDigits > maxChunkSizeDigits || d.size > d.opts.MaxChunkSize {
				return ErrChunkSizeTooLarge
			}
		}
	}

	cur.Advance(len(rest))
	return nil
}

func (d *chunkDecoder) skipExtension(cur *Cursor) error {
	rest := cur.Rest()
	for i, c := range rest {
		if c == rule.CR {
			cur.Advance(i + 1)
			d.state = chunkSizeLF
			return nil
		}
		if rule.IsCTL(c) && c != rule.HTAB {
			return errors.Wrapf(ErrMalformedChunk, "invalid chunk extension character %#x", c)
		}
		if d.extLen++; d.extLen > d.opts.MaxHeaderLineLength {
			return errors.Wrap(ErrMalformedChunk, "chunk extension exceeds limit")
		}
	}

	cur.Advance(len(rest))
	return nil
}

func (d *chunkDecoder) readTrailers(cur *Cursor) (done bool, err error) {
	for {
		ev, name, value, err := readFieldLine(cur, d.opts.MaxHeaderLineLength)
		if err != nil {
			return false, err
		}

		switch ev {
		case fieldNone:
			return false, nil
		case fieldEnd:
			return true, nil
		case fieldValue:
			if d.trailerCount++; d.trailerCount > d.opts.MaxHeaderCount {
				return false, errors.Wrap(ErrTooManyHeaders, "trailer section")
			}
			d.trailers.Add(name, value)
		case fieldFold:
			if len(d.trailers) == 0 {
				return false, errors.Wrap(ErrMalformedHeader, "continuation without a preceding trailer")
			}
			if len(value) > 0 {
				last := &d.trailers[len(d.trailers)-1]
				if len(last.Value) > 0 {
					last.Value += " " + value
				} else {
					last.Value = value
				}
			}
		}
	}
}

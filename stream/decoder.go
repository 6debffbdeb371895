// Package stream adapts the incremental codec to io.Reader / io.Writer
// endpoints. It is a convenience layer: the transport, not the wire format,
// lives here.
package stream

import (
	"io"
	"time"

	"httpwire/message"
	"httpwire/parse"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
)

type DecodeOptions struct {
	// Parse bounds the underlying parser.
	Parse parse.Options

	// ReadSize is the slab handed to each Read call.
	ReadSize int

	// ReadBudget aborts decoding when a single Read blocks longer than this,
	// guarding against stalled peers. Zero means no budget.
	ReadBudget time.Duration

	// Clock measures the budget; swapped for a mock in tests.
	Clock clock.Clock
}

var DefaultDecodeOptions = DecodeOptions{
	ReadSize: 4096,
}

func (o DecodeOptions) withDefaults() DecodeOptions {
	if o.ReadSize == 0 {
		o.ReadSize = DefaultDecodeOptions.ReadSize
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}

// ErrReadBudgetExceeded reports a single Read that overran the configured
// stall budget.
var ErrReadBudgetExceeded = errors.New("read exceeded stall budget")

// feeder is the part of a parser the decode loop drives.
type feeder interface {
	Feed(data []byte) (parse.Progress, error)
	CloseInput() (parse.Progress, error)
	Idle() bool
}

type decoder struct {
	r    io.Reader
	opts DecodeOptions
	buf  []byte
	eof  bool
}

func newDecoder(r io.Reader, opts DecodeOptions) decoder {
	opts = opts.withDefaults()
	return decoder{
		r:    r,
		opts: opts,
		buf:  make([]byte, opts.ReadSize),
	}
}

// decode feeds p until one message completes. io.EOF means the stream ended
// cleanly between messages; an end of input anywhere inside a message
// surfaces the parser's truncation error.
func (d *decoder) decode(p feeder) error {
	// Drain bytes buffered past the previous message first.
	prog, err := p.Feed(nil)
	if err != nil {
		return err
	}

	for !prog.Done {
		if d.eof {
			if p.Idle() {
				return io.EOF
			}
			prog, err = p.CloseInput()
			if err != nil {
				return err
			}
			continue
		}

		n, rerr := d.read()
		if n > 0 {
			prog, err = p.Feed(d.buf[:n])
			if err != nil {
				return err
			}
		}
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				return errors.Wrap(rerr, "reading stream")
			}
			d.eof = true
		}
	}

	return nil
}

func (d *decoder) read() (int, error) {
	start := d.opts.Clock.Now()
	n, err := d.r.Read(d.buf)
	if d.opts.ReadBudget > 0 && d.opts.Clock.Now().Sub(start) > d.opts.ReadBudget {
		return n, ErrReadBudgetExceeded
	}
	return n, err
}

// RequestDecoder reads consecutive request messages from a byte stream.
// Pipelined messages are delimited exactly; bytes past a completed message
// feed the next Decode call.
type RequestDecoder struct {
	decoder
	parser *parse.RequestParser
	first  bool
}

func NewRequestDecoder(r io.Reader, opts DecodeOptions) *RequestDecoder {
	return &RequestDecoder{
		decoder: newDecoder(r, opts),
		parser:  parse.NewRequestParser(opts.Parse),
		first:   true,
	}
}

// Decode returns the next complete request.
func (d *RequestDecoder) Decode() (*message.Request, error) {
	if !d.first {
		d.parser.Reset()
	}
	d.first = false

	if err := d.decode(d.parser); err != nil {
		return nil, err
	}

	return d.parser.Request(), nil
}

// ResponseDecoder reads consecutive response messages from a byte stream.
type ResponseDecoder struct {
	decoder
	parser *parse.ResponseParser
	first  bool
}

func NewResponseDecoder(r io.Reader, opts DecodeOptions) *ResponseDecoder {
	return &ResponseDecoder{
		decoder: newDecoder(r, opts),
		parser:  parse.NewResponseParser(opts.Parse),
		first:   true,
	}
}

// Decode returns the next complete response.
func (d *ResponseDecoder) Decode() (*message.Response, error) {
	if !d.first {
		d.parser.Reset()
	}
	d.first = false

	if err := d.decode(d.parser); err != nil {
		return nil, err
	}

	return d.parser.Response(), nil
}

// Package parse converts raw HTTP/1.x byte streams into structured messages.
//
// The parsers are incremental: bytes are delivered through Feed in fragments
// of any size, progress is reported without blocking, and a completed message
// leaves pipelined trailing bytes buffered for the next one. No I/O happens
// here; the caller owns the transport.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112
package parse

import (
	"bytes"

	"httpwire/message"
	"httpwire/rule"

	"github.com/pkg/errors"
)

type parserState uint8

const (
	stateStartLine parserState = iota + 1
	stateHeaders
	stateBody
	stateDone
	stateFailed
)

// Progress reports how far a parser has come with the current message.
type Progress struct {
	// Done means the message is complete and immutable.
	Done bool
	// Consumed is the completed message's exact wire length. Bytes fed
	// beyond it stay buffered and survive Reset.
	Consumed int
}

type parser struct {
	opts        Options
	forResponse bool

	state    parserState
	pending  []byte
	consumed int
	err      error

	reqLine  message.RequestLine
	statLine message.StatusLine
	headers  message.Fields

	framing   framing
	body      []byte
	remaining int64
	chunked   *chunkDecoder

	request  *message.Request
	response *message.Response
}

func newParser(forResponse bool, opts Options) parser {
	return parser{
		opts:        opts.withDefaults(),
		forResponse: forResponse,
		state:       stateStartLine,
	}
}

// Feed appends data to the pending buffer and advances the state machine as
// far as it can. The final result is identical regardless of how the input is
// fragmented. After a failure every further call reports the same error.
func (p *parser) Feed(data []byte) (Progress, error) {
	switch p.state {
	case stateFailed:
		return Progress{}, p.err
	case stateDone:
		// The message is complete; keep the bytes for the next one.
		p.pending = append(p.pending, data...)
		return Progress{Done: true, Consumed: p.consumed}, nil
	}

	p.pending = append(p.pending, data...)
	return p.drive()
}

// CloseInput signals that no further bytes will ever arrive. For until-close
// response bodies this is the completion signal; anywhere else mid-message it
// is a truncation error.
func (p *parser) CloseInput() (Progress, error) {
	switch p.state {
	case stateFailed:
		return Progress{}, p.err
	case stateDone:
		return Progress{Done: true, Consumed: p.consumed}, nil
	}

	if p.state == stateBody && p.framing.kind == message.BodyUntilClose {
		p.complete(message.UntilCloseBody(p.body))
		return Progress{Done: true, Consumed: p.consumed}, nil
	}

	return Progress{}, p.fail(errors.Wrap(ErrUnexpectedEndOfStream, "message truncated"))
}

// Reset prepares the instance for the next message of the stream, keeping any
// unconsumed trailing bytes of the previous Complete result. Resetting a
// failed parser also drops the buffer, as no message boundary is trusted
// beyond a failure.
func (p *parser) Reset() {
	pending := p.pending
	if p.state == stateFailed {
		pending = nil
	}

	*p = newParser(p.forResponse, p.opts)
	p.pending = pending
}

// Idle reports whether no byte of the current message has been observed yet.
// A stream that ends while the parser is idle simply carries no further
// message.
func (p *parser) Idle() bool {
	return p.state == stateStartLine && len(p.pending) == 0 && p.consumed == 0
}

// Buffered returns the count of bytes fed but not yet attributed to a
// completed message.
func (p *parser) Buffered() int { return len(p.pending) }

func (p *parser) drive() (Progress, error) {
	cur := NewCursor(p.pending)
	defer func() {
		p.consumed += cur.Consumed()
		p.pending = p.pending[cur.Consumed():]
	}()

	for {
		switch p.state {
		case stateStartLine:
			ok, err := p.readStartLine(cur)
			if err != nil {
				return Progress{}, p.fail(err)
			}
			if !ok {
				return Progress{}, nil
			}
			p.state = stateHeaders

		case stateHeaders:
			ok, err := p.readHeaders(cur)
			if err != nil {
				return Progress{}, p.fail(err)
			}
			if !ok {
				return Progress{}, nil
			}
			if err := p.enterBody(); err != nil {
				return Progress{}, p.fail(err)
			}

		case stateBody:
			ok, err := p.readBody(cur)
			if err != nil {
				return Progress{}, p.fail(err)
			}
			if !ok {
				return Progress{}, nil
			}

		case stateDone:
			return Progress{Done: true, Consumed: p.consumed + cur.Consumed()}, nil

		default:
			panic("unreachable parser state")
		}
	}
}

func (p *parser) readStartLine(cur *Cursor) (ok bool, err error) {
	if cur.Find(rule.CRLF) < 0 {
		if cur.Remaining() > p.opts.MaxStartLineLength {
			return false, errors.Wrap(ErrMalformedStartLine, "start line exceeds limit")
		}
		return false, nil
	}

	line, _ := cur.Line()
	if len(line) > p.opts.MaxStartLineLength {
		return false, errors.Wrap(ErrMalformedStartLine, "start line exceeds limit")
	}

	if p.forResponse {
		statLine, err := parseStatusLine(line)
		if err != nil {
			return false, errors.Wrap(err, "parsing status line")
		}
		p.statLine = statLine
	} else {
		reqLine, err := parseRequestLine(line)
		if err != nil {
			return false, errors.Wrap(err, "parsing request line")
		}
		p.reqLine = reqLine
	}

	return true, nil
}

func parseRequestLine(line []byte) (message.RequestLine, error) {
	parts := bytes.Split(line, []byte{rule.SP})
	if len(parts) != 3 {
		return message.RequestLine{}, errors.Wrap(ErrMalformedStartLine, "request line needs exactly three parts")
	}

	ver, err := message.ParseVersion(parts[2])
	if err != nil {
		return message.RequestLine{}, errors.Wrap(ErrMalformedStartLine, err.Error())
	}

	reqLine := message.RequestLine{
		Method:  string(parts[0]),
		Target:  string(parts[1]),
		Version: ver,
	}
	if err := reqLine.Validate(); err != nil {
		return message.RequestLine{}, errors.Wrap(ErrMalformedStartLine, err.Error())
	}

	return reqLine, nil
}

func parseStatusLine(line []byte) (message.StatusLine, error) {
	// reason-phrase is optional and may contain spaces.
	parts := bytes.SplitN(line, []byte{rule.SP}, 3)
	if len(parts) < 2 {
		return message.StatusLine{}, errors.Wrap(ErrMalformedStartLine, "status line needs version and status code")
	}

	ver, err := message.ParseVersion(parts[0])
	if err != nil {
		return message.StatusLine{}, errors.Wrap(ErrMalformedStartLine, err.Error())
	}

	code := parts[1]
	if len(code) != 3 || !allDigits(string(code)) {
		return message.StatusLine{}, errors.Wrapf(ErrMalformedStartLine, "malformed status code %q", code)
	}
	statusCode := int(code[0]-'0')*100 + int(code[1]-'0')*10 + int(code[2]-'0')

	var reason string
	if len(parts) == 3 {
		reason = string(parts[2])
	}

	statLine := message.StatusLine{
		Version:      ver,
		StatusCode:   statusCode,
		ReasonPhrase: reason,
	}
	if err := statLine.Validate(); err != nil {
		return message.StatusLine{}, errors.Wrap(ErrMalformedStartLine, err.Error())
	}

	return statLine, nil
}

func (p *parser) readHeaders(cur *Cursor) (ok bool, err error) {
	for {
		ev, name, value, err := readFieldLine(cur, p.opts.MaxHeaderLineLength)
		if err != nil {
			return false, err
		}

		switch ev {
		case fieldNone:
			return false, nil
		case fieldEnd:
			return true, nil
		case fieldValue:
			if len(p.headers) >= p.opts.MaxHeaderCount {
				return false, ErrTooManyHeaders
			}
			p.headers.Add(name, value)
		case fieldFold:
			if len(p.headers) == 0 {
				return false, errors.Wrap(ErrMalformedHeader, "continuation without a preceding field")
			}
			if len(value) > 0 {
				last := &p.headers[len(p.headers)-1]
				if len(last.Value) > 0 {
					last.Value += " " + value
				} else {
					last.Value = value
				}
			}
		}
	}
}

func (p *parser) enterBody() error {
	framing, err := decideFraming(p.headers, p.forResponse, p.statLine.StatusCode, p.opts)
	if err != nil {
		return err
	}

	p.framing = framing
	p.state = stateBody

	switch framing.kind {
	case message.BodyEmpty:
		p.complete(message.Body{Kind: message.BodyEmpty})
	case message.BodyFixed:
		p.remaining = framing.length
		p.body = make([]byte, 0, framing.length)
		if p.remaining == 0 {
			p.complete(message.FixedBody(p.body))
		}
	case message.BodyChunked:
		p.chunked = newChunkDecoder(p.opts)
	case message.BodyUntilClose:
		// Accumulates until CloseInput.
	}

	return nil
}

func (p *parser) readBody(cur *Cursor) (done bool, err error) {
	switch p.framing.kind {
	case message.BodyFixed:
		n := int64(cur.Remaining())
		if n > p.remaining {
			n = p.remaining
		}
		p.body = append(p.body, cur.Take(int(n))...)
		p.remaining -= n

		if p.remaining > 0 {
			return false, nil
		}
		p.complete(message.FixedBody(p.body))
		return true, nil

	case message.BodyChunked:
		done, err := p.chunked.decode(cur)
		if err != nil {
			return false, err
		}
		if !done {
			return false, nil
		}
		p.complete(message.ChunkedBody(p.chunked.chunks, p.chunked.trailers))
		return true, nil

	case message.BodyUntilClose:
		if int64(len(p.body)+cur.Remaining()) > p.opts.MaxBodySize {
			return false, errors.Wrap(ErrBodyTooLarge, "until-close body")
		}
		p.body = append(p.body, cur.Take(cur.Remaining())...)
		return false, nil

	default:
		panic("body state entered without framing")
	}
}

func (p *parser) complete(body message.Body) {
	if p.forResponse {
		p.response = &message.Response{
			StatusLine: p.statLine,
			Headers:    p.headers,
			Body:       body,
		}
	} else {
		p.request = &message.Request{
			RequestLine: p.reqLine,
			Headers:     p.headers,
			Body:        body,
		}
	}

	p.state = stateDone
}

func (p *parser) fail(err error) error {
	p.state = stateFailed
	p.err = err
	return err
}

// RequestParser assembles one request message from a byte stream. Instances
// are single-use per message; Reset moves on to the next pipelined one.
type RequestParser struct{ parser }

func NewRequestParser(opts Options) *RequestParser {
	return &RequestParser{newParser(false, opts)}
}

// Request returns the parsed message once Feed or CloseInput reported Done,
// nil before that.
func (p *RequestParser) Request() *message.Request { return p.request }

// ResponseParser assembles one response message from a byte stream.
type ResponseParser struct{ parser }

func NewResponseParser(opts Options) *ResponseParser {
	return &ResponseParser{newParser(true, opts)}
}

// Response returns the parsed message once Feed or CloseInput reported Done,
// nil before that.
func (p *ResponseParser) Response() *message.Response { return p.response }

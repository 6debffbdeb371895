package stream

import (
	"bufio"
	"io"

	"httpwire/message"
	"httpwire/render"

	"github.com/pkg/errors"
)

// RequestEncoder renders request messages and writes them to a byte stream.
type RequestEncoder struct {
	bw *bufio.Writer
}

func NewRequestEncoder(w io.Writer) *RequestEncoder {
	return &RequestEncoder{bw: bufio.NewWriter(w)}
}

// Encode validates, renders and flushes one request. Nothing reaches the
// stream when rendering fails.
func (e *RequestEncoder) Encode(req *message.Request) error {
	wire, err := render.Request(req)
	if err != nil {
		return errors.Wrap(err, "rendering request")
	}

	if _, err := e.bw.Write(wire); err != nil {
		return errors.Wrap(err, "writing request")
	}

	if err := e.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing request")
	}

	return nil
}

// ResponseEncoder renders response messages and writes them to a byte stream.
type ResponseEncoder struct {
	bw *bufio.Writer
}

func NewResponseEncoder(w io.Writer) *ResponseEncoder {
	return &ResponseEncoder{bw: bufio.NewWriter(w)}
}

// Encode validates, renders and flushes one response.
func (e *ResponseEncoder) Encode(resp *message.Response) error {
	wire, err := render.Response(resp)
	if err != nil {
		return errors.Wrap(err, "rendering response")
	}

	if _, err := e.bw.Write(wire); err != nil {
		return errors.Wrap(err, "writing response")
	}

	if err := e.bw.Flush(); err != nil {
		return errors.Wrap(err, "flushing response")
	}

	return nil
}

// Package render serializes structured HTTP/1.x messages back to wire bytes.
//
// Rendering is pure: it performs no I/O, and a structurally inconsistent
// message is rejected before a single byte is produced. The renderer never
// chooses body framing; it reflects the framing recorded on the message.
package render

import (
	"bytes"
	"strconv"
	"strings"

	"httpwire/message"
	"httpwire/rule"

	"github.com/pkg/errors"
)

// ErrInvalidRenderInput wraps every render-time validation failure.
var ErrInvalidRenderInput = errors.New("invalid render input")

// Request serializes req, recomputing the body framing headers so the emitted
// header section can never contradict the body.
func Request(req *message.Request) ([]byte, error) {
	if err := req.RequestLine.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRenderInput, err.Error())
	}
	if req.Body.Kind == message.BodyUntilClose {
		return nil, errors.Wrap(ErrInvalidRenderInput, "requests cannot carry an until-close body")
	}
	headers, err := framingHeaders(req.Headers, req.Body)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	buf.WriteString(req.Method)
	buf.WriteByte(rule.SP)
	buf.WriteString(req.Target)
	buf.WriteByte(rule.SP)
	buf.Write(req.Version.Text())
	buf.Write(rule.CRLF)

	writeFields(buf, headers)
	writeBody(buf, req.Body)

	return buf.Bytes(), nil
}

// Response serializes resp the same way.
func Response(resp *message.Response) ([]byte, error) {
	if err := resp.StatusLine.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRenderInput, err.Error())
	}
	headers, err := framingHeaders(resp.Headers, resp.Body)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	buf.Write(resp.Version.Text())
	buf.WriteByte(rule.SP)
	buf.WriteString(strconv.Itoa(resp.StatusCode))
	buf.WriteByte(rule.SP)
	buf.WriteString(resp.ReasonPhrase)
	buf.Write(rule.CRLF)

	writeFields(buf, headers)
	writeBody(buf, resp.Body)

	return buf.Bytes(), nil
}

// framingHeaders validates the stored fields and returns them with the body
// framing entries brought in line with the actual body variant.
func framingHeaders(headers message.Fields, body message.Body) (message.Fields, error) {
	if err := headers.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRenderInput, err.Error())
	}
	if err := body.Trailers.Validate(); err != nil {
		return nil, errors.Wrap(ErrInvalidRenderInput, err.Error())
	}

	out := headers.Clone()

	switch body.Kind {
	case message.BodyEmpty, message.BodyUntilClose:
		if out.Has("Content-Length") || out.Has("Transfer-Encoding") {
			return nil, errors.Wrapf(ErrInvalidRenderInput,
				"%s body contradicts stored framing headers", body.Kind)
		}

	case message.BodyFixed:
		if out.Has("Transfer-Encoding") {
			return nil, errors.Wrap(ErrInvalidRenderInput,
				"fixed body contradicts stored Transfer-Encoding")
		}
		out.Set("Content-Length", strconv.Itoa(len(body.Data)))

	case message.BodyChunked:
		if out.Has("Content-Length") {
			return nil, errors.Wrap(ErrInvalidRenderInput,
				"chunked body contradicts stored Content-Length")
		}

		codings := out.SplitTokens("Transfer-Encoding")
		switch {
		case len(codings) == 0:
			out.Set("Transfer-Encoding", "chunked")
		case !strings.EqualFold(codings[len(codings)-1], "chunked"):
			return nil, errors.Wrap(ErrInvalidRenderInput,
				"stored Transfer-Encoding does not end in chunked")
		}

	default:
		return nil, errors.Wrapf(ErrInvalidRenderInput, "unknown body kind %d", body.Kind)
	}

	return out, nil
}

func writeFields(buf *bytes.Buffer, fields message.Fields) {
	for _, f := range fields {
		buf.Write(f.Text())
		buf.Write(rule.CRLF)
	}
	buf.Write(rule.CRLF)
}

func writeBody(buf *bytes.Buffer, body message.Body) {
	switch body.Kind {
	case message.BodyFixed, message.BodyUntilClose:
		buf.Write(body.Data)

	case message.BodyChunked:
		for _, chunk := range body.Chunks {
			if len(chunk) == 0 {
				// A zero-length chunk would terminate the body early.
				continue
			}
			buf.WriteString(strconv.FormatInt(int64(len(chunk)), 16))
			buf.Write(rule.CRLF)
			buf.Write(chunk)
			buf.Write(rule.CRLF)
		}

		buf.WriteString("0")
		buf.Write(rule.CRLF)
		writeFields(buf, body.Trailers)
	}
}

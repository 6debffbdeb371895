// Package message defines the structured representation of HTTP/1.x messages
// shared by the parser and the renderer.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package message

import (
	"httpwire/rule"

	"github.com/pkg/errors"
)

// [Major, Minor]
type Version [2]uint8

var (
	V10 = Version{1, 0}
	V11 = Version{1, 1}
)

// ParseVersion parses http version text (e.g. "HTTP/1.1") into [Version].
// Only the single-digit form "HTTP/DIGIT.DIGIT" is valid.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-2.3
func ParseVersion(b []byte) (Version, error) {
	const prefix = "HTTP/"
	if len(b) != len(prefix)+3 || string(b[:len(prefix)]) != prefix {
		return Version{}, errors.Errorf("malformed http version: %q", b)
	}

	major, dot, minor := b[len(prefix)], b[len(prefix)+1], b[len(prefix)+2]
	if !rule.IsDigit(major) || dot != '.' || !rule.IsDigit(minor) {
		return Version{}, errors.Errorf("malformed http version: %q", b)
	}

	return Version{major - '0', minor - '0'}, nil
}

func (ver Version) Text() []byte {
	return []byte{'H', 'T', 'T', 'P', '/', '0' + ver[0], '.', '0' + ver[1]}
}

func (ver Version) String() string { return string(ver.Text()) }

// RequestLine is the first line of a request message.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3
type RequestLine struct {
	Method string
	// Target is the raw request target, kept unparsed.
	Target  string
	Version Version
}

// Validate reports the first structural violation of the request line, if any.
func (rl RequestLine) Validate() error {
	if !rule.IsValidToken(rl.Method) {
		return errors.Errorf("method is not a valid token: %q", rl.Method)
	}

	if len(rl.Target) == 0 {
		return errors.New("request target is empty")
	}
	for i := 0; i < len(rl.Target); i++ {
		if c := rl.Target[i]; rule.IsCTL(c) || c == rule.SP {
			return errors.Errorf("request target contains invalid character %#x", c)
		}
	}

	return nil
}

// StatusLine is the first line of a response message.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-4
type StatusLine struct {
	Version    Version
	StatusCode int
	// ReasonPhrase may be empty; it carries no semantics.
	ReasonPhrase string
}

// Validate reports the first structural violation of the status line, if any.
func (sl StatusLine) Validate() error {
	if sl.StatusCode < 100 || sl.StatusCode > 599 {
		return errors.Errorf("status code out of range: %d", sl.StatusCode)
	}
	for i := 0; i < len(sl.ReasonPhrase); i++ {
		if c := sl.ReasonPhrase[i]; rule.IsCTL(c) && c != rule.HTAB {
			return errors.Errorf("reason phrase contains invalid character %#x", c)
		}
	}

	return nil
}

// Request is a fully framed request message.
type Request struct {
	RequestLine
	Headers Fields
	Body    Body
}

// Response is a fully framed response message.
type Response struct {
	StatusLine
	Headers Fields
	Body    Body
}

// StatusText returns the conventional reason phrase for code, or "" if unknown.
func StatusText(code int) string {
	text, ok := statusText[code]
	if !ok {
		return ""
	}
	return text
}

var statusText = map[int]string{
	100: "Continue",
	101: "Switching Protocols",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	206: "Partial Content",
	301: "Moved Permanently",
	302: "Found",
	303: "See Other",
	304: "Not Modified",
	307: "Temporary Redirect",
	308: "Permanent Redirect",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	411: "Length Required",
	413: "Content Too Large",
	414: "URI Too Long",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	505: "HTTP Version Not Supported",
}

package parse

import (
	"strconv"
	"strings"

	"httpwire/message"

	"github.com/pkg/errors"
)

// framing is the single body strategy selected for a message once its header
// section is complete.
type framing struct {
	kind message.BodyKind
	// length is the declared size for [message.BodyFixed].
	length int64
}

// decideFraming picks exactly one body strategy from the final header section.
// Priority: chunked > Content-Length > until-close (responses) > empty.
// A message carrying both Transfer-Encoding and Content-Length is rejected
// outright rather than resolved by precedence.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.3
func decideFraming(headers message.Fields, forResponse bool, statusCode int, opts Options) (framing, error) {
	hasTE := headers.Has("Transfer-Encoding")
	hasCL := headers.Has("Content-Length")

	if hasTE && hasCL {
		return framing{}, errors.Wrap(ErrConflictingFraming,
			"both Transfer-Encoding and Content-Length present")
	}

	if hasTE {
		codings := headers.SplitTokens("Transfer-Encoding")
		if len(codings) == 0 {
			return framing{}, errors.Wrap(ErrUnsupportedTransferEncoding, "empty Transfer-Encoding")
		}

		// The final coding must be chunked, and no other coding can be
		// decoded here (compression codings belong to the caller).
		if !strings.EqualFold(codings[len(codings)-1], "chunked") {
			return framing{}, errors.Wrapf(ErrUnsupportedTransferEncoding,
				"final coding is %q, not chunked", codings[len(codings)-1])
		}
		if len(codings) > 1 {
			return framing{}, errors.Wrapf(ErrUnsupportedTransferEncoding,
				"cannot decode coding %q", codings[0])
		}

		return framing{kind: message.BodyChunked}, nil
	}

	if hasCL {
		length, err := contentLength(headers)
		if err != nil {
			return framing{}, err
		}
		if length > opts.MaxBodySize {
			return framing{}, errors.Wrap(ErrBodyTooLarge, "declared Content-Length")
		}

		return framing{kind: message.BodyFixed, length: length}, nil
	}

	if forResponse && statusPermitsBody(statusCode) {
		return framing{kind: message.BodyUntilClose}, nil
	}

	return framing{kind: message.BodyEmpty}, nil
}

// contentLength resolves the Content-Length value. Repeated fields and
// comma-separated list members are tolerated only when every element is the
// same valid decimal number.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-8.6-15
func contentLength(headers message.Fields) (int64, error) {
	elems := headers.SplitTokens("Content-Length")
	if len(elems) == 0 {
		return 0, errors.Wrap(ErrInvalidContentLength, "empty Content-Length")
	}

	first := elems[0]
	for _, e := range elems[1:] {
		if e != first {
			return 0, errors.Wrapf(ErrInvalidContentLength,
				"conflicting values %q and %q", first, e)
		}
	}

	length, err := strconv.ParseInt(first, 10, 64)
	if err != nil || length < 0 || !allDigits(first) {
		return 0, errors.Wrapf(ErrInvalidContentLength, "value %q", first)
	}

	return length, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// statusPermitsBody reports whether a response with the given status code may
// carry content.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-6.3-2.1
func statusPermitsBody(code int) bool {
	if code >= 100 && code <= 199 {
		return false
	}
	return code != 204 && code != 304
}

package parse

import "github.com/pkg/errors"

// All parse failures wrap one of these sentinels; match with [errors.Is].
// Every failure is terminal for the current message.
var (
	ErrMalformedStartLine = errors.New("malformed start line")
	ErrMalformedHeader    = errors.New("malformed header field")
	ErrHeaderTooLarge     = errors.New("header line exceeds limit")
	ErrTooManyHeaders     = errors.New("too many header fields")

	ErrConflictingFraming          = errors.New("conflicting body framing headers")
	ErrUnsupportedTransferEncoding = errors.New("unsupported transfer encoding")
	ErrInvalidContentLength        = errors.New("invalid content length")

	ErrMalformedChunk    = errors.New("malformed chunk-encoded data")
	ErrChunkSizeTooLarge = errors.New("chunk size exceeds limit")
	ErrBodyTooLarge      = errors.New("body exceeds limit")

	ErrUnexpectedEndOfStream = errors.New("unexpected end of stream")
)

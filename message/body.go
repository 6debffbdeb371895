package message

// BodyKind records how the body of a message was (or should be) framed.
type BodyKind uint8

const (
	// BodyEmpty is a message without a body.
	BodyEmpty BodyKind = iota
	// BodyFixed is a Content-Length delimited body.
	BodyFixed
	// BodyChunked is a Transfer-Encoding chunked body.
	BodyChunked
	// BodyUntilClose is a response body delimited by the end of input.
	BodyUntilClose
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyFixed:
		return "fixed"
	case BodyChunked:
		return "chunked"
	case BodyUntilClose:
		return "until-close"
	default:
		return "unknown"
	}
}

// Body is the decoded message body together with the framing it arrived in.
// The framing kind is kept for diagnostics and round-tripping; the content is
// always available flat through [Body.Bytes].
type Body struct {
	Kind BodyKind

	// Data holds the content for BodyFixed and BodyUntilClose.
	Data []byte

	// Chunks holds the content for BodyChunked, one entry per wire chunk
	// (the terminating zero chunk excluded). Chunk boundaries are part of
	// the wire format, not of the input fragmentation.
	Chunks [][]byte

	// Trailers holds the trailer section of a chunked body, if any.
	Trailers Fields
}

// FixedBody frames data by Content-Length.
func FixedBody(data []byte) Body {
	return Body{Kind: BodyFixed, Data: data}
}

// ChunkedBody frames the given chunks with chunked transfer coding.
func ChunkedBody(chunks [][]byte, trailers Fields) Body {
	return Body{Kind: BodyChunked, Chunks: chunks, Trailers: trailers}
}

// UntilCloseBody frames data by end of input. Only legal on responses.
func UntilCloseBody(data []byte) Body {
	return Body{Kind: BodyUntilClose, Data: data}
}

// Bytes returns the decoded body content as one flat slice.
func (b Body) Bytes() []byte {
	switch b.Kind {
	case BodyChunked:
		var total int
		for _, c := range b.Chunks {
			total += len(c)
		}

		flat := make([]byte, 0, total)
		for _, c := range b.Chunks {
			flat = append(flat, c...)
		}
		return flat
	default:
		return b.Data
	}
}

// Length returns the decoded content length.
func (b Body) Length() int { return len(b.Bytes()) }

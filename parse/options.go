package parse

// Options bound the resources a single parser instance may consume. A zero
// field falls back to the corresponding [DefaultOptions] value.
type Options struct {
	// MaxStartLineLength limits the request/status line, terminator excluded.
	// Recommended: >= 8000
	//
	// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3-5
	MaxStartLineLength int

	// MaxHeaderLineLength limits a single field line, folded continuations
	// counted separately. It also bounds buffering of a line that has not
	// seen its terminator yet.
	MaxHeaderLineLength int

	// MaxHeaderCount limits the number of fields in the header section and
	// in a chunked body's trailer section.
	MaxHeaderCount int

	// MaxChunkSize limits the declared size of a single chunk.
	MaxChunkSize int64

	// MaxBodySize limits the total decoded body size, whatever the framing.
	MaxBodySize int64
}

var DefaultOptions = Options{
	MaxStartLineLength:  8192,
	MaxHeaderLineLength: 8192,
	MaxHeaderCount:      100,
	MaxChunkSize:        8 << 20,
	MaxBodySize:         1 << 30,
}

func (o Options) withDefaults() Options {
	if o.MaxStartLineLength == 0 {
		o.MaxStartLineLength = DefaultOptions.MaxStartLineLength
	}
	if o.MaxHeaderLineLength == 0 {
		o.MaxHeaderLineLength = DefaultOptions.MaxHeaderLineLength
	}
	if o.MaxHeaderCount == 0 {
		o.MaxHeaderCount = DefaultOptions.MaxHeaderCount
	}
	if o.MaxChunkSize == 0 {
		o.MaxChunkSize = DefaultOptions.MaxChunkSize
	}
	if o.MaxBodySize == 0 {
		o.MaxBodySize = DefaultOptions.MaxBodySize
	}
	return o
}

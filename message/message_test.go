package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected Version
		wantErr  bool
	}{
		{
			desc:     "HTTP/1.1",
			input:    "HTTP/1.1",
			expected: V11,
		},
		{
			desc:     "HTTP/1.0",
			input:    "HTTP/1.0",
			expected: V10,
		},
		{
			desc:    "missing prefix",
			input:   "HTTQ/1.1",
			wantErr: true,
		},
		{
			desc:    "multi-digit version",
			input:   "HTTP/11.1",
			wantErr: true,
		},
		{
			desc:    "missing dot",
			input:   "HTTP/1-1",
			wantErr: true,
		},
		{
			desc:    "lowercase prefix",
			input:   "http/1.1",
			wantErr: true,
		},
		{
			desc:    "empty",
			input:   "",
			wantErr: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			ver, err := ParseVersion([]byte(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, ver)
			assert.Equal(t, tc.input, ver.String())
		})
	}
}

func TestRequestLineValidate(t *testing.T) {
	valid := RequestLine{Method: "GET", Target: "/index.html?q=1", Version: V11}
	assert.NoError(t, valid.Validate())

	testcases := []struct {
		desc string
		line RequestLine
	}{
		{
			desc: "method not a token",
			line: RequestLine{Method: "GE T", Target: "/", Version: V11},
		},
		{
			desc: "empty method",
			line: RequestLine{Method: "", Target: "/", Version: V11},
		},
		{
			desc: "empty target",
			line: RequestLine{Method: "GET", Target: "", Version: V11},
		},
		{
			desc: "target with CTL",
			line: RequestLine{Method: "GET", Target: "/a\x00b", Version: V11},
		},
		{
			desc: "target with space",
			line: RequestLine{Method: "GET", Target: "/a b", Version: V11},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Error(t, tc.line.Validate())
		})
	}
}

func TestStatusLineValidate(t *testing.T) {
	valid := StatusLine{Version: V11, StatusCode: 200, ReasonPhrase: "OK"}
	assert.NoError(t, valid.Validate())

	emptyReason := StatusLine{Version: V11, StatusCode: 204}
	assert.NoError(t, emptyReason.Validate())

	testcases := []struct {
		desc string
		line StatusLine
	}{
		{
			desc: "code too small",
			line: StatusLine{Version: V11, StatusCode: 99},
		},
		{
			desc: "code too large",
			line: StatusLine{Version: V11, StatusCode: 600},
		},
		{
			desc: "reason with CR",
			line: StatusLine{Version: V11, StatusCode: 200, ReasonPhrase: "O\rK"},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Error(t, tc.line.Validate())
		})
	}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "OK", StatusText(200))
	assert.Equal(t, "Not Found", StatusText(404))
	assert.Equal(t, "", StatusText(299))
}

func TestBodyBytes(t *testing.T) {
	testcases := []struct {
		desc     string
		body     Body
		expected string
	}{
		{
			desc:     "empty body",
			body:     Body{Kind: BodyEmpty},
			expected: "",
		},
		{
			desc:     "fixed body",
			body:     FixedBody([]byte("hello")),
			expected: "hello",
		},
		{
			desc:     "chunked body flattens",
			body:     ChunkedBody([][]byte{[]byte("Wiki"), []byte("pedia")}, nil),
			expected: "Wikipedia",
		},
		{
			desc:     "until-close body",
			body:     UntilCloseBody([]byte("tail")),
			expected: "tail",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, []byte(tc.expected), tc.body.Bytes())
			assert.Equal(t, len(tc.expected), tc.body.Length())
		})
	}
}

func TestBodyKindString(t *testing.T) {
	assert.Equal(t, "empty", BodyEmpty.String())
	assert.Equal(t, "fixed", BodyFixed.String())
	assert.Equal(t, "chunked", BodyChunked.String())
	assert.Equal(t, "until-close", BodyUntilClose.String())
}

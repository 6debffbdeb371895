package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidToken(t *testing.T) {
	testcases := []struct {
		desc     string
		input    string
		expected bool
	}{
		{
			desc:     "valid token with alphabets",
			input:    "Content-Type",
			expected: true,
		},
		{
			desc:     "valid token with digits",
			input:    "Token123",
			expected: true,
		},
		{
			desc:     "valid token with special characters",
			input:    "Token-._~",
			expected: true,
		},
		{
			desc:     "invalid token with space",
			input:    "Token 123",
			expected: false,
		},
		{
			desc:     "invalid token with separator",
			input:    "Token:123",
			expected: false,
		},
		{
			desc:     "invalid token with CTL",
			input:    "Token\x01",
			expected: false,
		},
		{
			desc:     "empty token",
			input:    "",
			expected: false,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidToken(tc.input))
		})
	}
}

func TestHexDigit(t *testing.T) {
	testcases := []struct {
		desc     string
		input    byte
		expected byte
	}{
		{desc: "digit", input: '7', expected: 7},
		{desc: "lowercase", input: 'a', expected: 10},
		{desc: "uppercase", input: 'F', expected: 15},
		{desc: "out of range", input: 'g', expected: 0xFF},
		{desc: "separator", input: ';', expected: 0xFF},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, HexDigit(tc.input))
		})
	}
}

func TestIsCTL(t *testing.T) {
	assert.True(t, IsCTL(0x00))
	assert.True(t, IsCTL(LF))
	assert.True(t, IsCTL(0x7F))
	assert.False(t, IsCTL(SP))
	assert.False(t, IsCTL('A'))
}

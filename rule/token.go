// Package rule holds the character classes and grammar rules of RFC 9110/9112
// that every parsing stage shares.
package rule

// IsTokenChar reports whether c is a tchar.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.2-2
func IsTokenChar(c byte) bool {
	if IsAlpha(c) || IsDigit(c) {
		return true
	}

	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+',
		'-', '.', '^', '_', '`', '|', '~':
		return true
	}

	return false
}

// IsValidToken reports whether s is a non-empty sequence of tchars.
func IsValidToken(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsTokenChar(s[i]) {
			return false
		}
	}

	return true
}

// HexDigit returns the value of the hexadecimal digit c, or 0xFF if c is not one.
func HexDigit(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	default:
		return 0xFF
	}
}

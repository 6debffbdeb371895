package parse

import (
	"bytes"

	"httpwire/rule"

	"github.com/pkg/errors"
)

type fieldEvent uint8

const (
	// fieldNone means no full line is buffered yet; nothing was consumed.
	fieldNone fieldEvent = iota
	// fieldValue carries a parsed name/value pair.
	fieldValue
	// fieldFold carries the continuation value of an obs-fold line.
	fieldFold
	// fieldEnd is the blank line terminating the section.
	fieldEnd
)

// readFieldLine parses one field line of a header (or trailer) section.
//
// Whitespace between the field name and the colon is rejected, not tolerated.
// Obsolete line folding is recognized: a line starting with SP/HTAB is
// reported as fieldFold and its trimmed content belongs to the previous
// field's value.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5
func readFieldLine(cur *Cursor, maxLine int) (ev fieldEvent, name, value string, err error) {
	if cur.Find(rule.CRLF) < 0 {
		if cur.Remaining() > maxLine {
			return fieldNone, "", "", errors.Wrap(ErrHeaderTooLarge, "unterminated field line")
		}
		return fieldNone, "", "", nil
	}

	line, _ := cur.Line()
	if len(line) > maxLine {
		return fieldNone, "", "", ErrHeaderTooLarge
	}

	if len(line) == 0 {
		return fieldEnd, "", "", nil
	}

	if rule.IsOWS(line[0]) {
		folded := trimOWSBytes(line)
		if err := checkFieldValue(folded); err != nil {
			return fieldNone, "", "", err
		}
		return fieldFold, "", string(folded), nil
	}

	colon := bytes.IndexByte(line, ':')
	if colon < 0 {
		return fieldNone, "", "", errors.Wrap(ErrMalformedHeader, "missing colon")
	}

	rawName := line[:colon]
	if !rule.IsValidToken(string(rawName)) {
		// Also rejects whitespace before the colon.
		// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5.1-2
		return fieldNone, "", "", errors.Wrapf(ErrMalformedHeader, "invalid field name %q", rawName)
	}

	rawValue := trimOWSBytes(line[colon+1:])
	if err := checkFieldValue(rawValue); err != nil {
		return fieldNone, "", "", err
	}

	return fieldValue, string(rawName), string(rawValue), nil
}

func checkFieldValue(v []byte) error {
	for _, c := range v {
		if rule.IsCTL(c) && c != rule.HTAB {
			return errors.Wrapf(ErrMalformedHeader, "field value contains invalid character %#x", c)
		}
	}
	return nil
}

func trimOWSBytes(b []byte) []byte {
	start := 0
	for start < len(b) && rule.IsOWS(b[start]) {
		start++
	}

	end := len(b)
	for end > start && rule.IsOWS(b[end-1]) {
		end--
	}

	return b[start:end]
}

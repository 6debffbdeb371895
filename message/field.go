package message

import (
	"strings"

	"httpwire/rule"

	"github.com/pkg/errors"
)

// Field is a single header field. The name keeps the casing it was created
// with; lookups are case-insensitive.
type Field struct {
	Name  string
	Value string
}

// NewField validates name and value and returns the field. The name must be a
// valid token and the value must be free of CR, LF and NUL, so that a message
// holding the field can always be rendered.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-5
func NewField(name, value string) (Field, error) {
	f := Field{Name: name, Value: value}
	if err := f.Validate(); err != nil {
		return Field{}, err
	}
	return f, nil
}

// Validate reports the first structural violation of the field, if any.
func (f Field) Validate() error {
	if !rule.IsValidToken(f.Name) {
		return errors.Errorf("field name is not a valid token: %q", f.Name)
	}

	for i := 0; i < len(f.Value); i++ {
		if c := f.Value[i]; rule.IsCTL(c) && c != rule.HTAB {
			return errors.Errorf("field %q value contains invalid character %#x", f.Name, c)
		}
	}

	return nil
}

// Text renders the field as it appears on the wire, without the terminator.
func (f Field) Text() []byte {
	b := make([]byte, 0, len(f.Name)+2+len(f.Value))
	b = append(b, f.Name...)
	b = append(b, ':', rule.SP)
	b = append(b, f.Value...)
	return b
}

// Fields is an ordered sequence of header fields. Repeated names are kept as
// separate entries in insertion order; rendering preserves that order.
type Fields []Field

// Get returns the value of the first field named name (case-insensitive).
func (fs Fields) Get(name string) (value string, ok bool) {
	for _, f := range fs {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// Values returns the values of every field named name, in order.
func (fs Fields) Values(name string) (values []string) {
	for _, f := range fs {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Has reports whether at least one field named name exists.
func (fs Fields) Has(name string) bool {
	_, ok := fs.Get(name)
	return ok
}

// Add appends a field, keeping any existing entries with the same name.
func (fs *Fields) Add(name, value string) {
	*fs = append(*fs, Field{Name: name, Value: value})
}

// Set replaces the first field named name and drops the rest, or appends if
// none exists.
func (fs *Fields) Set(name, value string) {
	for i, f := range *fs {
		if strings.EqualFold(f.Name, name) {
			(*fs)[i].Value = value
			j := i + 1
			for j < len(*fs) {
				if strings.EqualFold((*fs)[j].Name, name) {
					*fs = append((*fs)[:j], (*fs)[j+1:]...)
				} else {
					j++
				}
			}
			return
		}
	}

	*fs = append(*fs, Field{Name: name, Value: value})
}

// Del removes every field named name.
func (fs *Fields) Del(name string) {
	kept := (*fs)[:0]
	for _, f := range *fs {
		if !strings.EqualFold(f.Name, name) {
			kept = append(kept, f)
		}
	}
	*fs = kept
}

// Clone returns a deep copy.
func (fs Fields) Clone() Fields {
	if fs == nil {
		return nil
	}
	clone := make(Fields, len(fs))
	copy(clone, fs)
	return clone
}

// Validate reports the first structural violation among the fields, if any.
func (fs Fields) Validate() error {
	for _, f := range fs {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SplitTokens splits every value of the (possibly repeated) field name on
// commas, trimming optional whitespace and dropping empty elements. List-based
// fields like Transfer-Encoding are compared with it.
//
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-5.6.1
func (fs Fields) SplitTokens(name string) (tokens []string) {
	for _, value := range fs.Values(name) {
		for _, tok := range strings.Split(value, ",") {
			tok = trimOWS(tok)
			if len(tok) > 0 {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

func trimOWS(s string) string {
	start := 0
	for start < len(s) && rule.IsOWS(s[start]) {
		start++
	}

	end := len(s)
	for end > start && rule.IsOWS(s[end-1]) {
		end--
	}

	return s[start:end]
}

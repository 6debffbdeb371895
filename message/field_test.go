package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewField(t *testing.T) {
	testcases := []struct {
		desc    string
		name    string
		value   string
		wantErr bool
	}{
		{
			desc:  "simple field",
			name:  "Content-Type",
			value: "text/html",
		},
		{
			desc:  "empty value",
			name:  "X-Empty",
			value: "",
		},
		{
			desc:  "value with HTAB",
			name:  "X-Tab",
			value: "a\tb",
		},
		{
			desc:    "name with space",
			name:    "Bad Name",
			value:   "v",
			wantErr: true,
		},
		{
			desc:    "empty name",
			name:    "",
			value:   "v",
			wantErr: true,
		},
		{
			desc:    "value with CR",
			name:    "X-Evil",
			value:   "a\rb",
			wantErr: true,
		},
		{
			desc:    "value with LF",
			name:    "X-Evil",
			value:   "a\nb",
			wantErr: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			f, err := NewField(tc.name, tc.value)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.name, f.Name)
			assert.Equal(t, tc.value, f.Value)
		})
	}
}

func TestFieldText(t *testing.T) {
	f := Field{Name: "Host", Value: "example.com"}
	assert.Equal(t, []byte("Host: example.com"), f.Text())
}

func TestFieldsLookup(t *testing.T) {
	fs := Fields{
		{Name: "Accept", Value: "text/html"},
		{Name: "Set-Cookie", Value: "a=1"},
		{Name: "set-cookie", Value: "b=2"},
	}

	v, ok := fs.Get("ACCEPT")
	assert.True(t, ok)
	assert.Equal(t, "text/html", v)

	_, ok = fs.Get("Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a=1", "b=2"}, fs.Values("Set-Cookie"))
	assert.True(t, fs.Has("set-COOKIE"))
}

func TestFieldsMutation(t *testing.T) {
	var fs Fields
	fs.Add("A", "1")
	fs.Add("B", "2")
	fs.Add("a", "3")

	// Set replaces the first entry and drops later duplicates, keeping order.
	fs.Set("A", "9")
	assert.Equal(t, Fields{{Name: "A", Value: "9"}, {Name: "B", Value: "2"}}, fs)

	fs.Del("b")
	assert.Equal(t, Fields{{Name: "A", Value: "9"}}, fs)

	fs.Set("C", "5")
	assert.Equal(t, Fields{{Name: "A", Value: "9"}, {Name: "C", Value: "5"}}, fs)
}

func TestFieldsClone(t *testing.T) {
	fs := Fields{{Name: "A", Value: "1"}}
	clone := fs.Clone()
	clone[0].Value = "changed"

	assert.Equal(t, "1", fs[0].Value)
	assert.Nil(t, Fields(nil).Clone())
}

func TestFieldsSplitTokens(t *testing.T) {
	fs := Fields{
		{Name: "Transfer-Encoding", Value: "gzip , chunked"},
		{Name: "Transfer-Encoding", Value: "trailers"},
	}

	assert.Equal(t,
		[]string{"gzip", "chunked", "trailers"},
		fs.SplitTokens("Transfer-Encoding"),
	)

	empty := Fields{{Name: "X", Value: " , ,"}}
	assert.Nil(t, empty.SplitTokens("X"))
}

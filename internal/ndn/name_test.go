package ndn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
		size     int
		wantErr  bool
	}{
		{"simple name", "/ndn/edu/example", "/ndn/edu/example", 3, false},
		{"root", "/", "/", 0, false},
		{"trailing slash", "/ndn/edu/", "/ndn/edu", 2, false},
		{"repeated slashes", "/ndn//edu", "/ndn/edu", 2, false},
		{"guest component", "/ndn/guest/alice@example.com", "/ndn/guest/alice@example.com", 3, false},
		{"percent escape", "/ndn/a%20b", "/ndn/a%20b", 2, false},
		{"missing leading slash", "ndn/edu", "", 0, true},
		{"bad escape", "/ndn/a%zz", "", 0, true},
		{"truncated escape", "/ndn/a%2", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseName(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.String())
			assert.Equal(t, tt.size, n.Size())
		})
	}
}

func TestNameAt(t *testing.T) {
	n := NewName("ndn", "edu", "example", "alice")

	assert.Equal(t, "ndn", string(n.At(0)))
	assert.Equal(t, "alice", string(n.At(-1)))
	assert.Equal(t, "example", string(n.At(-2)))
	assert.Equal(t, "edu", string(n.At(1)))
}

func TestNameIsPrefixOf(t *testing.T) {
	base := NewName("ndn", "edu", "example")

	assert.True(t, NewName("ndn", "edu").IsPrefixOf(base))
	assert.True(t, base.IsPrefixOf(base))
	assert.True(t, Name{}.IsPrefixOf(base))
	assert.False(t, NewName("ndn", "com").IsPrefixOf(base))
	assert.False(t, base.IsPrefixOf(NewName("ndn", "edu")))
}

func TestNameAppendDoesNotMutate(t *testing.T) {
	base := NewName("ndn", "edu")
	extended := base.Append("example", "alice")

	assert.Equal(t, "/ndn/edu", base.String())
	assert.Equal(t, "/ndn/edu/example/alice", extended.String())
}

func TestNameEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		n    Name
	}{
		{"simple", NewName("ndn", "edu", "example")},
		{"empty", Name{}},
		{"binary component", NewName("ndn", string([]byte{0x00, 0xFF, 0x7F}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeName(tt.n.Encode())
			require.NoError(t, err)
			assert.True(t, tt.n.Equals(decoded))
		})
	}

	t.Run("rejects non-name element", func(t *testing.T) {
		wire := appendTLV(nil, typeData, nil)
		_, err := DecodeName(wire)
		assert.Error(t, err)
	})

	t.Run("rejects truncated wire", func(t *testing.T) {
		wire := NewName("ndn", "edu").Encode()
		_, err := DecodeName(wire[:len(wire)-2])
		assert.Error(t, err)
	})
}

func TestNamePrefix(t *testing.T) {
	n := NewName("ndn", "edu", "example", "KEY", "abc", "NA", "v1")

	assert.Equal(t, "/ndn/edu", n.Prefix(2).String())
	assert.Equal(t, "/ndn/edu/example/KEY/abc/NA", n.Prefix(-1).String())
}

package ndn

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Component is a single name component. The bytes are opaque; the URI form
// percent-escapes anything outside printable ASCII plus '/' and '%'.
type Component []byte

// Name is an NDN name, an ordered sequence of components.
type Name struct {
	components []Component
}

// NewName builds a name from string components.
func NewName(components ...string) Name {
	n := Name{components: make([]Component, 0, len(components))}
	for _, c := range components {
		n.components = append(n.components, Component(c))
	}
	return n
}

// ParseName parses a name from its URI form. The name must start with '/'.
// Empty components produced by repeated or trailing slashes are dropped, so
// "/ndn/edu/" and "/ndn/edu" parse to the same name.
func ParseName(uri string) (Name, error) {
	if !strings.HasPrefix(uri, "/") {
		return Name{}, fmt.Errorf("name URI must start with '/': %q", uri)
	}
	var n Name
	for _, part := range strings.Split(uri, "/") {
		if part == "" {
			continue
		}
		c, err := unescapeComponent(part)
		if err != nil {
			return Name{}, fmt.Errorf("invalid name component %q: %w", part, err)
		}
		n.components = append(n.components, c)
	}
	return n, nil
}

// Size returns the number of components.
func (n Name) Size() int {
	return len(n.components)
}

// At returns the component at index i. Negative indexes count from the end,
// so At(-1) is the last component.
func (n Name) At(i int) Component {
	if i < 0 {
		i += len(n.components)
	}
	return n.components[i]
}

// Append returns a new name with the given string components appended.
func (n Name) Append(components ...string) Name {
	out := Name{components: make([]Component, 0, len(n.components)+len(components))}
	out.components = append(out.components, n.components...)
	for _, c := range components {
		out.components = append(out.components, Component(c))
	}
	return out
}

// Prefix returns a new name holding the first count components.
func (n Name) Prefix(count int) Name {
	if count < 0 {
		count += len(n.components)
	}
	return Name{components: n.components[:count]}
}

// IsPrefixOf reports whether every component of n matches the leading
// components of other.
func (n Name) IsPrefixOf(other Name) bool {
	if len(n.components) > len(other.components) {
		return false
	}
	for i, c := range n.components {
		if !bytes.Equal(c, other.components[i]) {
			return false
		}
	}
	return true
}

// Equals reports whether both names have identical components.
func (n Name) Equals(other Name) bool {
	return len(n.components) == len(other.components) && n.IsPrefixOf(other)
}

// String renders the name in URI form. The empty name renders as "/".
func (n Name) String() string {
	if len(n.components) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, c := range n.components {
		b.WriteByte('/')
		b.WriteString(escapeComponent(c))
	}
	return b.String()
}

// Encode returns the TLV wire encoding of the name.
func (n Name) Encode() []byte {
	var inner []byte
	for _, c := range n.components {
		inner = appendTLV(inner, typeGenericNameComponent, c)
	}
	return appendTLV(nil, typeName, inner)
}

// DecodeName decodes a name from its TLV wire encoding.
func DecodeName(wire []byte) (Name, error) {
	r := newTLVReader(wire)
	typ, value, err := r.readElement()
	if err != nil {
		return Name{}, err
	}
	if typ != typeName {
		return Name{}, ErrMalformed
	}
	return decodeNameValue(value)
}

// decodeNameValue decodes the inner value of a Name TLV.
func decodeNameValue(value []byte) (Name, error) {
	var n Name
	r := newTLVReader(value)
	for !r.done() {
		typ, v, err := r.readElement()
		if err != nil {
			return Name{}, err
		}
		if typ != typeGenericNameComponent {
			// Typed components (digest, version) are not produced by any
			// packet this service handles.
			return Name{}, ErrMalformed
		}
		c := make(Component, len(v))
		copy(c, v)
		n.components = append(n.components, c)
	}
	return n, nil
}

func escapeComponent(c Component) string {
	var b strings.Builder
	for _, ch := range c {
		if ch > 0x20 && ch < 0x7F && ch != '/' && ch != '%' {
			b.WriteByte(ch)
		} else {
			fmt.Fprintf(&b, "%%%02X", ch)
		}
	}
	return b.String()
}

func unescapeComponent(s string) (Component, error) {
	out := make(Component, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			out = append(out, s[i])
			continue
		}
		if i+2 >= len(s) {
			return nil, fmt.Errorf("truncated percent escape")
		}
		v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid percent escape %q", s[i:i+3])
		}
		out = append(out, byte(v))
		i += 2
	}
	return out, nil
}

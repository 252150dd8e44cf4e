// Package ndn implements the subset of the NDN packet format needed to decode
// names, certificates, and signed commands from their TLV wire encoding, and to
// verify signatures over them. Packets are treated as immutable byte slices;
// decoding never retains references into caller-owned buffers beyond the
// returned structs.
package ndn

import (
	"encoding/binary"

	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// TLV type numbers from the NDN packet format specification.
const (
	typeInterest             uint64 = 5
	typeData                 uint64 = 6
	typeName                 uint64 = 7
	typeGenericNameComponent uint64 = 8
	typeMetaInfo             uint64 = 20
	typeContent              uint64 = 21
	typeSignatureInfo        uint64 = 22
	typeSignatureValue       uint64 = 23
	typeContentType          uint64 = 24
	typeFreshnessPeriod      uint64 = 25
	typeFinalBlockID         uint64 = 26
	typeSignatureType        uint64 = 27
	typeKeyLocator           uint64 = 28
	typeKeyDigest            uint64 = 29
	typeValidityPeriod       uint64 = 253
	typeNotBefore            uint64 = 254
	typeNotAfter             uint64 = 255
)

// ErrMalformed is returned when a TLV element cannot be decoded.
var ErrMalformed = apperrors.Wrap(apperrors.ErrInvalidInput, "malformed TLV encoding")

// tlvReader walks a buffer of concatenated TLV elements.
type tlvReader struct {
	buf []byte
	pos int
}

func newTLVReader(buf []byte) *tlvReader {
	return &tlvReader{buf: buf}
}

func (r *tlvReader) done() bool {
	return r.pos >= len(r.buf)
}

// readVarNum decodes a TLV variable-length number (used for both type and length).
func (r *tlvReader) readVarNum() (uint64, error) {
	if r.pos >= len(r.buf) {
		return 0, ErrMalformed
	}
	first := r.buf[r.pos]
	r.pos++
	switch first {
	case 0xFD:
		if r.pos+2 > len(r.buf) {
			return 0, ErrMalformed
		}
		v := uint64(binary.BigEndian.Uint16(r.buf[r.pos:]))
		r.pos += 2
		return v, nil
	case 0xFE:
		if r.pos+4 > len(r.buf) {
			return 0, ErrMalformed
		}
		v := uint64(binary.BigEndian.Uint32(r.buf[r.pos:]))
		r.pos += 4
		return v, nil
	case 0xFF:
		if r.pos+8 > len(r.buf) {
			return 0, ErrMalformed
		}
		v := binary.BigEndian.Uint64(r.buf[r.pos:])
		r.pos += 8
		return v, nil
	default:
		return uint64(first), nil
	}
}

// readElement decodes the next TLV element and returns its type and value.
func (r *tlvReader) readElement() (typ uint64, value []byte, err error) {
	typ, err = r.readVarNum()
	if err != nil {
		return 0, nil, err
	}
	length, err := r.readVarNum()
	if err != nil {
		return 0, nil, err
	}
	if uint64(len(r.buf)-r.pos) < length {
		return 0, nil, ErrMalformed
	}
	value = r.buf[r.pos : r.pos+int(length)]
	r.pos += int(length)
	return typ, value, nil
}

// peekType returns the type of the next element without consuming it.
func (r *tlvReader) peekType() (uint64, error) {
	saved := r.pos
	typ, err := r.readVarNum()
	r.pos = saved
	return typ, err
}

// appendVarNum encodes a TLV variable-length number.
func appendVarNum(b []byte, v uint64) []byte {
	switch {
	case v < 0xFD:
		return append(b, byte(v))
	case v <= 0xFFFF:
		return append(b, 0xFD, byte(v>>8), byte(v))
	case v <= 0xFFFFFFFF:
		return append(b, 0xFE, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		return append(b, 0xFF,
			byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
			byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

// appendTLV encodes a complete TLV element.
func appendTLV(b []byte, typ uint64, value []byte) []byte {
	b = appendVarNum(b, typ)
	b = appendVarNum(b, uint64(len(value)))
	return append(b, value...)
}

// decodeNonNegativeInteger decodes a TLV NonNegativeInteger of length 1, 2, 4, or 8.
func decodeNonNegativeInteger(value []byte) (uint64, error) {
	switch len(value) {
	case 1:
		return uint64(value[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(value)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(value)), nil
	case 8:
		return binary.BigEndian.Uint64(value), nil
	default:
		return 0, ErrMalformed
	}
}

// appendNonNegativeInteger encodes a TLV NonNegativeInteger using the shortest
// allowed length.
func appendNonNegativeInteger(b []byte, v uint64) []byte {
	switch {
	case v <= 0xFF:
		return append(b, byte(v))
	case v <= 0xFFFF:
		return append(b, byte(v>>8), byte(v))
	case v <= 0xFFFFFFFF:
		return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		return append(b,
			byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
			byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
}

package ndn

import (
	"fmt"
	"time"
)

// Signature type values from the NDN packet format specification.
const (
	SignatureDigestSha256    uint64 = 0
	SignatureSha256WithRsa   uint64 = 1
	SignatureSha256WithEcdsa uint64 = 3
	SignatureHmacWithSha256  uint64 = 4
	SignatureEd25519         uint64 = 5
)

// validityTimeLayout is the ISO-8601 form used by ValidityPeriod timestamps.
const validityTimeLayout = "20060102T150405"

// SignatureInfo describes how a packet was signed: the algorithm, the name of
// the signing key, and for certificates the validity period.
type SignatureInfo struct {
	Type           uint64
	KeyLocatorName Name
	HasKeyLocator  bool
	Validity       *ValidityPeriod
}

// ValidityPeriod bounds the time range in which a certificate is valid.
// Both bounds are inclusive and expressed in UTC.
type ValidityPeriod struct {
	NotBefore time.Time
	NotAfter  time.Time
}

// Contains reports whether t falls inside the validity period.
func (v ValidityPeriod) Contains(t time.Time) bool {
	return !t.Before(v.NotBefore) && !t.After(v.NotAfter)
}

// DecodeSignatureInfo decodes a SignatureInfo TLV element, including the outer
// type and length octets.
func DecodeSignatureInfo(wire []byte) (SignatureInfo, error) {
	r := newTLVReader(wire)
	typ, value, err := r.readElement()
	if err != nil {
		return SignatureInfo{}, err
	}
	if typ != typeSignatureInfo {
		return SignatureInfo{}, ErrMalformed
	}
	return decodeSignatureInfoValue(value)
}

func decodeSignatureInfoValue(value []byte) (SignatureInfo, error) {
	var info SignatureInfo
	r := newTLVReader(value)

	typ, v, err := r.readElement()
	if err != nil {
		return SignatureInfo{}, err
	}
	if typ != typeSignatureType {
		return SignatureInfo{}, ErrMalformed
	}
	info.Type, err = decodeNonNegativeInteger(v)
	if err != nil {
		return SignatureInfo{}, err
	}

	for !r.done() {
		typ, v, err := r.readElement()
		if err != nil {
			return SignatureInfo{}, err
		}
		switch typ {
		case typeKeyLocator:
			name, err := decodeKeyLocatorValue(v)
			if err != nil {
				return SignatureInfo{}, err
			}
			info.KeyLocatorName = name
			info.HasKeyLocator = true
		case typeValidityPeriod:
			validity, err := decodeValidityPeriodValue(v)
			if err != nil {
				return SignatureInfo{}, err
			}
			info.Validity = &validity
		default:
			// Unrecognized SignatureInfo extensions are skipped.
		}
	}
	return info, nil
}

// decodeKeyLocatorValue decodes the inner value of a KeyLocator TLV. Only the
// Name form is supported; a KeyDigest locator cannot name a signing key.
func decodeKeyLocatorValue(value []byte) (Name, error) {
	r := newTLVReader(value)
	typ, v, err := r.readElement()
	if err != nil {
		return Name{}, err
	}
	if typ != typeName {
		return Name{}, fmt.Errorf("%w: key locator is not a name", ErrMalformed)
	}
	return decodeNameValue(v)
}

func decodeValidityPeriodValue(value []byte) (ValidityPeriod, error) {
	var validity ValidityPeriod
	r := newTLVReader(value)
	for !r.done() {
		typ, v, err := r.readElement()
		if err != nil {
			return ValidityPeriod{}, err
		}
		t, err := time.ParseInLocation(validityTimeLayout, string(v), time.UTC)
		if err != nil {
			return ValidityPeriod{}, fmt.Errorf("%w: invalid validity timestamp %q", ErrMalformed, v)
		}
		switch typ {
		case typeNotBefore:
			validity.NotBefore = t
		case typeNotAfter:
			validity.NotAfter = t
		default:
			return ValidityPeriod{}, ErrMalformed
		}
	}
	if validity.NotBefore.IsZero() || validity.NotAfter.IsZero() {
		return ValidityPeriod{}, ErrMalformed
	}
	return validity, nil
}

// Encode returns the TLV wire encoding of the SignatureInfo element.
func (s SignatureInfo) Encode() []byte {
	var inner []byte
	inner = appendTLV(inner, typeSignatureType, appendNonNegativeInteger(nil, s.Type))
	if s.HasKeyLocator {
		inner = appendTLV(inner, typeKeyLocator, s.KeyLocatorName.Encode())
	}
	if s.Validity != nil {
		var vp []byte
		vp = appendTLV(vp, typeNotBefore, []byte(s.Validity.NotBefore.UTC().Format(validityTimeLayout)))
		vp = appendTLV(vp, typeNotAfter, []byte(s.Validity.NotAfter.UTC().Format(validityTimeLayout)))
		inner = appendTLV(inner, typeValidityPeriod, vp)
	}
	return appendTLV(nil, typeSignatureInfo, inner)
}

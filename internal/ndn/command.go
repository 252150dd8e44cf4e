package ndn

import (
	"crypto"
	"encoding/base64"
	"fmt"
	"time"

	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// commandSuffixSize is the number of trailing components a signed command name
// carries: timestamp, site prefix, signature info, signature value.
const commandSuffixSize = 4

// SignedCommand is a decoded signed command name. Operators authenticate to
// the issuance API by signing a name whose last four components hold a
// millisecond timestamp, their site prefix as a nested name, and the encoded
// SignatureInfo and SignatureValue elements. The signature covers every
// component except the last.
type SignedCommand struct {
	Name           Name
	Timestamp      uint64
	SitePrefix     Name
	SignatureInfo  SignatureInfo
	SignatureValue []byte
	SignedPortion  []byte
}

// ParseSignedCommand decodes a signed command from the wire encoding of its
// name.
func ParseSignedCommand(wire []byte) (SignedCommand, error) {
	name, err := DecodeName(wire)
	if err != nil {
		return SignedCommand{}, err
	}
	if name.Size() < commandSuffixSize {
		return SignedCommand{}, apperrors.Wrapf(apperrors.ErrInvalidInput,
			"signed command has %d components, need at least %d", name.Size(), commandSuffixSize)
	}

	cmd := SignedCommand{Name: name}

	cmd.Timestamp, err = decodeNonNegativeInteger(name.At(-4))
	if err != nil {
		return SignedCommand{}, fmt.Errorf("%w: command timestamp", ErrMalformed)
	}

	cmd.SitePrefix, err = DecodeName(name.At(-3))
	if err != nil {
		return SignedCommand{}, fmt.Errorf("%w: command site prefix", ErrMalformed)
	}

	cmd.SignatureInfo, err = DecodeSignatureInfo(name.At(-2))
	if err != nil {
		return SignedCommand{}, fmt.Errorf("%w: command signature info", ErrMalformed)
	}

	cmd.SignatureValue, err = decodeSignatureValueComponent(name.At(-1))
	if err != nil {
		return SignedCommand{}, err
	}

	// The signed portion is the wire encoding of every component but the last.
	var signed []byte
	for i := 0; i < name.Size()-1; i++ {
		signed = appendTLV(signed, typeGenericNameComponent, name.At(i))
	}
	cmd.SignedPortion = signed

	return cmd, nil
}

// ParseSignedCommandBase64 decodes a signed command from the base64 form
// carried in API requests.
func ParseSignedCommandBase64(encoded string) (SignedCommand, error) {
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return SignedCommand{}, apperrors.Wrapf(apperrors.ErrInvalidInput, "signed command base64: %v", err)
	}
	return ParseSignedCommand(wire)
}

// BuildSignedCommand constructs and signs a command name: the given prefix
// components followed by the current timestamp, the site prefix, and the
// signature elements. Returns the wire encoding of the complete name. Used by
// operator-side tooling and tests; the service itself only parses commands.
func BuildSignedCommand(
	signer crypto.Signer,
	sigType uint64,
	keyLocator Name,
	sitePrefix Name,
	prefix ...string,
) ([]byte, error) {
	ts := uint64(time.Now().UnixMilli())
	name := NewName(prefix...).
		Append(string(appendNonNegativeInteger(nil, ts))).
		Append(string(sitePrefix.Encode()))

	info := SignatureInfo{
		Type:           sigType,
		KeyLocatorName: keyLocator,
		HasKeyLocator:  true,
	}
	name = name.Append(string(info.Encode()))

	var signed []byte
	for i := 0; i < name.Size(); i++ {
		signed = appendTLV(signed, typeGenericNameComponent, name.At(i))
	}
	sig, err := Sign(signer, sigType, signed)
	if err != nil {
		return nil, err
	}

	name = name.Append(string(appendTLV(nil, typeSignatureValue, sig)))
	return name.Encode(), nil
}

// decodeSignatureValueComponent extracts the raw signature bytes from a name
// component holding an encoded SignatureValue element.
func decodeSignatureValueComponent(c Component) ([]byte, error) {
	r := newTLVReader(c)
	typ, value, err := r.readElement()
	if err != nil {
		return nil, fmt.Errorf("%w: command signature value", ErrMalformed)
	}
	if typ != typeSignatureValue {
		return nil, fmt.Errorf("%w: command signature value", ErrMalformed)
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

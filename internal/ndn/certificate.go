package ndn

import (
	"crypto"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// Certificate is a Data packet whose content is the DER encoding of a public
// key. Certificate names follow /<identity>/KEY/<key-id>/<issuer>/<version>.
type Certificate struct {
	Data
	PublicKey crypto.PublicKey
}

// DecodeCertificate decodes a certificate from its TLV wire encoding and
// parses the embedded public key.
func DecodeCertificate(wire []byte) (Certificate, error) {
	data, err := DecodeData(wire)
	if err != nil {
		return Certificate{}, err
	}
	if len(data.Content) == 0 {
		return Certificate{}, apperrors.Wrap(apperrors.ErrInvalidInput, "certificate has no public key content")
	}
	key, err := x509.ParsePKIXPublicKey(data.Content)
	if err != nil {
		return Certificate{}, apperrors.Wrapf(apperrors.ErrInvalidInput, "certificate public key: %v", err)
	}
	return Certificate{Data: data, PublicKey: key}, nil
}

// DecodeCertificateBase64 decodes a certificate from the base64 form used in
// operator records and issuance submissions.
func DecodeCertificateBase64(encoded string) (Certificate, error) {
	wire, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Certificate{}, apperrors.Wrapf(apperrors.ErrInvalidInput, "certificate base64: %v", err)
	}
	return DecodeCertificate(wire)
}

// Validity returns the certificate validity period, or an error when the
// signature info carries none.
func (c Certificate) Validity() (ValidityPeriod, error) {
	if c.SignatureInfo.Validity == nil {
		return ValidityPeriod{}, fmt.Errorf("certificate %s has no validity period", c.Name)
	}
	return *c.SignatureInfo.Validity, nil
}

// KeyName returns the certificate name truncated after the KEY component, the
// prefix a key locator referencing this key carries. When the name has no KEY
// component the full name is returned.
func (c Certificate) KeyName() Name {
	for i := 0; i+1 < c.Name.Size(); i++ {
		if string(c.Name.At(i)) == "KEY" {
			return c.Name.Prefix(i + 2)
		}
	}
	return c.Name
}

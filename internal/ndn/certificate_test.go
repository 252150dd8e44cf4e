package ndn

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCertificate builds a self-signed certificate packet for the given
// identity name.
func newTestCertificate(t *testing.T, identity string) (Certificate, *ecdsa.PrivateKey) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	name, err := ParseName(identity)
	require.NoError(t, err)
	certName := name.Append("KEY", "keyid1", "NA", "v1")

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	data := Data{
		Name:    certName,
		Content: der,
		SignatureInfo: SignatureInfo{
			Type:           SignatureSha256WithEcdsa,
			KeyLocatorName: certName.Prefix(-2),
			HasKeyLocator:  true,
			Validity: &ValidityPeriod{
				NotBefore: now.Add(-time.Hour),
				NotAfter:  now.Add(365 * 24 * time.Hour),
			},
		},
	}
	sig, err := Sign(priv, SignatureSha256WithEcdsa, data.signedPortion())
	require.NoError(t, err)
	data.SignatureValue = sig

	cert, err := DecodeCertificate(data.Encode())
	require.NoError(t, err)
	return cert, priv
}

func TestDecodeCertificate(t *testing.T) {
	cert, _ := newTestCertificate(t, "/ndn/edu/example/alice")

	assert.Equal(t, "/ndn/edu/example/alice/KEY/keyid1/NA/v1", cert.Name.String())
	assert.IsType(t, &ecdsa.PublicKey{}, cert.PublicKey)

	validity, err := cert.Validity()
	require.NoError(t, err)
	assert.True(t, validity.Contains(time.Now().UTC()))
	assert.False(t, validity.Contains(time.Now().UTC().Add(366*24*time.Hour)))
}

func TestDecodeCertificate_Invalid(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		name := NewName("ndn", "edu", "example")
		data := Data{
			Name:           name,
			SignatureInfo:  SignatureInfo{Type: SignatureSha256WithEcdsa},
			SignatureValue: []byte{0x01},
		}
		_, err := DecodeCertificate(data.Encode())
		assert.ErrorContains(t, err, "no public key content")
	})

	t.Run("content is not a public key", func(t *testing.T) {
		data := Data{
			Name:           NewName("ndn", "edu"),
			Content:        []byte("not a DER key"),
			SignatureInfo:  SignatureInfo{Type: SignatureSha256WithEcdsa},
			SignatureValue: []byte{0x01},
		}
		_, err := DecodeCertificate(data.Encode())
		assert.Error(t, err)
	})

	t.Run("garbage wire", func(t *testing.T) {
		_, err := DecodeCertificate([]byte{0xDE, 0xAD, 0xBE, 0xEF})
		assert.Error(t, err)
	})
}

func TestDecodeCertificateBase64(t *testing.T) {
	cert, _ := newTestCertificate(t, "/ndn/edu/example/alice")
	encoded := base64.StdEncoding.EncodeToString(cert.Encode())

	decoded, err := DecodeCertificateBase64(encoded)
	require.NoError(t, err)
	assert.True(t, cert.Name.Equals(decoded.Name))

	_, err = DecodeCertificateBase64("!!! not base64 !!!")
	assert.Error(t, err)
}

func TestCertificateKeyName(t *testing.T) {
	cert, _ := newTestCertificate(t, "/ndn/edu/example/alice")
	assert.Equal(t, "/ndn/edu/example/alice/KEY/keyid1", cert.KeyName().String())

	noKey := Certificate{Data: Data{Name: NewName("ndn", "edu")}}
	assert.Equal(t, "/ndn/edu", noKey.KeyName().String())
}

func TestDataSignedPortionCoversSignatureInfo(t *testing.T) {
	cert, priv := newTestCertificate(t, "/ndn/edu/example/alice")

	// The decoded signed portion must verify against the original key.
	err := VerifySignature(&priv.PublicKey, SignatureSha256WithEcdsa, cert.SignedPortion, cert.SignatureValue)
	require.NoError(t, err)

	// Flipping a byte inside the signed portion must break verification.
	tampered := make([]byte, len(cert.SignedPortion))
	copy(tampered, cert.SignedPortion)
	tampered[len(tampered)/2] ^= 0xFF
	err = VerifySignature(&priv.PublicKey, SignatureSha256WithEcdsa, tampered, cert.SignatureValue)
	assert.ErrorIs(t, err, ErrBadSignature)
}

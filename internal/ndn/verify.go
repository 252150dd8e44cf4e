package ndn

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
)

var (
	// ErrBadSignature is returned when a signature does not verify against
	// the signed bytes and public key.
	ErrBadSignature = errors.New("signature verification failed")

	// ErrKeyLocatorMismatch is returned when a command's key locator does
	// not reference the certificate it is checked against.
	ErrKeyLocatorMismatch = errors.New("key locator does not match certificate")
)

// VerifySignature checks sig over signed using the given public key and
// signature type. ECDSA signatures use the ASN.1 DER form.
func VerifySignature(pub crypto.PublicKey, sigType uint64, signed, sig []byte) error {
	switch sigType {
	case SignatureSha256WithEcdsa:
		key, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return fmt.Errorf("%w: key is not ECDSA", ErrBadSignature)
		}
		digest := sha256.Sum256(signed)
		if !ecdsa.VerifyASN1(key, digest[:], sig) {
			return ErrBadSignature
		}
		return nil

	case SignatureSha256WithRsa:
		key, ok := pub.(*rsa.PublicKey)
		if !ok {
			return fmt.Errorf("%w: key is not RSA", ErrBadSignature)
		}
		digest := sha256.Sum256(signed)
		if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig); err != nil {
			return ErrBadSignature
		}
		return nil

	case SignatureEd25519:
		key, ok := pub.(ed25519.PublicKey)
		if !ok {
			return fmt.Errorf("%w: key is not Ed25519", ErrBadSignature)
		}
		if !ed25519.Verify(key, signed, sig) {
			return ErrBadSignature
		}
		return nil

	default:
		return fmt.Errorf("%w: unsupported signature type %d", ErrBadSignature, sigType)
	}
}

// VerifyCommand authenticates a signed command against a single certificate.
// The command's key locator must be a prefix of the certificate name and the
// signature must verify with the certificate's public key. There is no chain
// walk: the given certificate is the whole trust anchor.
func VerifyCommand(cmd SignedCommand, cert Certificate) error {
	if !cmd.SignatureInfo.HasKeyLocator {
		return ErrKeyLocatorMismatch
	}
	if !cmd.SignatureInfo.KeyLocatorName.IsPrefixOf(cert.Name) {
		return ErrKeyLocatorMismatch
	}
	return VerifySignature(cert.PublicKey, cmd.SignatureInfo.Type, cmd.SignedPortion, cmd.SignatureValue)
}

// SignData signs the packet's signed portion in place. The signature type is
// taken from the packet's SignatureInfo and must match the key.
func SignData(signer crypto.Signer, data *Data) error {
	sig, err := Sign(signer, data.SignatureInfo.Type, data.signedPortion())
	if err != nil {
		return err
	}
	data.SignatureValue = sig
	return nil
}

// Sign produces a signature over signed with the given private key. ECDSA and
// Ed25519 keys are supported; the signature type must match the key.
func Sign(priv crypto.Signer, sigType uint64, signed []byte) ([]byte, error) {
	switch sigType {
	case SignatureSha256WithEcdsa, SignatureSha256WithRsa:
		digest := sha256.Sum256(signed)
		return priv.Sign(rand.Reader, digest[:], crypto.SHA256)
	case SignatureEd25519:
		return priv.Sign(rand.Reader, signed, crypto.Hash(0))
	default:
		return nil, fmt.Errorf("unsupported signature type %d", sigType)
	}
}

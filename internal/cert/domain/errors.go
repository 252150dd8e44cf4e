package domain

import (
	"github.com/ndn-testbed/ndncert/internal/errors"
)

// Certificate issuance errors.
var (
	// ErrTokenInvalid indicates the email and token pair did not match a
	// stored token, either because it never existed or was already spent.
	ErrTokenInvalid = errors.Wrap(errors.ErrForbidden, "invalid or already used token")

	// ErrUnknownSite indicates no operator serves the email domain or site
	// prefix and no guest fallback exists.
	ErrUnknownSite = errors.Wrap(errors.ErrInvalidInput, "no site serves this address")

	// ErrFullNameRequired indicates a non-guest request was submitted without
	// the requester's full name.
	ErrFullNameRequired = errors.Wrap(errors.ErrInvalidInput, "full name cannot be empty")

	// ErrNamespaceMismatch indicates the submitted certificate request is not
	// named under the assigned namespace.
	ErrNamespaceMismatch = errors.Wrap(errors.ErrInvalidInput,
		"certificate request name is outside the assigned namespace")

	// ErrRequestNotFound indicates the certificate request does not exist.
	ErrRequestNotFound = errors.Wrap(errors.ErrNotFound, "certificate request not found")

	// ErrCertificateNotFound indicates no certificate is stored under the name.
	ErrCertificateNotFound = errors.Wrap(errors.ErrNotFound, "certificate not found")

	// ErrCommandForbidden covers every signed-command failure: unparseable
	// command, unknown site, key locator mismatch, or bad signature. The
	// causes are deliberately not distinguished to the caller.
	ErrCommandForbidden = errors.Wrap(errors.ErrForbidden, "command verification failed")
)

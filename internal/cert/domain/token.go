// Package domain defines the certificate issuance domain models: one-time
// email verification tokens, pending certificate requests, and issued
// certificates.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a one-time email verification token. A token is bound to the email
// it was sent to and, for guest users, to the site prefix chosen on the
// request form. Tokens carry no expiry themselves; stale rows are removed by
// the cleanup command.
type Token struct {
	ID         uuid.UUID // Unique identifier (UUIDv7)
	Email      string    // Email address the token was sent to
	Secret     string    // Alphanumeric token value from the generator
	SitePrefix string    // Chosen guest site prefix, empty for regular requests
	CreatedAt  time.Time
}

// IsGuest reports whether the token was issued for a guest site request.
func (t *Token) IsGuest() bool {
	return t.SitePrefix != ""
}

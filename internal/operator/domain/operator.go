// Package domain defines the site operator model.
//
// Operators are the trust anchors of the issuance workflow: each testbed site
// has exactly one operator record carrying the site prefix, the email domains
// the site serves, and the base64 certificate used to verify the operator's
// signed commands. The directory is replaced wholesale on import; the service
// itself never mutates individual records.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// GuestDomainMarker is the site_emails entry that marks an operator as the
// fallback for email domains no site serves.
const GuestDomainMarker = "guest"

// Operator is a testbed site operator record.
type Operator struct {
	ID         uuid.UUID // Unique identifier (UUIDv7)
	SiteName   string    // Human-readable site name
	SitePrefix string    // Site namespace in URI form, e.g. "/ndn/edu/example"
	SiteEmails []string  // Email domains the site serves, or the guest marker
	Name       string    // Operator contact name
	Email      string    // Operator contact email
	Key        string    // Base64 certificate used to verify signed commands

	// AllowGuests marks sites that accept guest users under
	// <SitePrefix>/@GUEST/<email>.
	AllowGuests bool

	// SkipRequestNotify suppresses the pending-request email for regular
	// requests; SkipGuestRequestNotify does the same for guest requests.
	SkipRequestNotify      bool
	SkipGuestRequestNotify bool

	CreatedAt time.Time
}

// ServesDomain reports whether the operator's site serves the given email
// domain.
func (o *Operator) ServesDomain(domain string) bool {
	return slices.Contains(o.SiteEmails, domain)
}

// IsGuestDefault reports whether the operator is the fallback for unknown
// email domains.
func (o *Operator) IsGuestDefault() bool {
	return o.ServesDomain(GuestDomainMarker)
}

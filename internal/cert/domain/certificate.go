package domain

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is an issued certificate as stored for public retrieval. The
// wire encoding stays in the base64 form the operator submitted; the name is
// the full certificate name in URI form and is unique, so re-issuing a
// certificate replaces the stored copy.
type Certificate struct {
	ID         uuid.UUID // Unique identifier (UUIDv7)
	Name       string    // Full certificate name in URI form
	OperatorID uuid.UUID // Operator that approved the issuance
	SitePrefix string    // Site prefix of the approving operator
	Data       string    // Base64 wire encoding of the certificate
	CreatedAt  time.Time
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// CertificateRequest is a pending issuance request awaiting an operator
// decision. The request is created when a user submits a certificate request
// under their assigned namespace with a valid token, and deleted when the
// operator approves or denies it.
type CertificateRequest struct {
	ID                uuid.UUID // Unique identifier (UUIDv7)
	OperatorID        uuid.UUID // Operator responsible for the decision
	SitePrefix        string    // Guest site prefix from the token, empty for regular requests
	AssignedNamespace string    // Namespace the policy assigned, in URI form
	FullName          string    // Requester's full name, empty for guests
	Organization      string    // Site name of the responsible operator
	Email             string    // Requester's email address
	HomeURL           string    // Optional requester home page
	Group             string    // Optional research group
	Advisor           string    // Optional advisor name
	CertRequest       string    // Base64 wire encoding of the submitted certificate request
	CreatedAt         time.Time
}

// Assignment is the outcome of namespace resolution: the operator responsible
// for the request and the namespace the requester's certificate must live
// under.
type Assignment struct {
	OperatorID uuid.UUID
	Namespace  string // Assigned namespace in URI form

	// RequireFullName marks email-derived assignments, which must carry the
	// requester's full name. Guest site assignments do not.
	RequireFullName bool

	// Guest marks assignments made through a guest site selection.
	Guest bool
}

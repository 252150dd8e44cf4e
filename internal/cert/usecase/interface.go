// Package usecase implements the certificate issuance workflow: token
// issuance, request submission, operator listing, and the approve/deny
// decision.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// OperatorLookup resolves operators by ID. The decision flow uses it to
// detect requests whose operator was dropped by a directory replacement.
type OperatorLookup interface {
	// Get retrieves an operator by ID. Returns ErrOperatorNotFound if the
	// operator no longer exists.
	Get(ctx context.Context, operatorID uuid.UUID) (*operatorDomain.Operator, error)
}

// TokenRepository defines persistence operations for verification tokens.
// Implementations must support transaction-aware operations via context
// propagation.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *certDomain.Token) error

	// Get retrieves a token by email and secret without spending it.
	// Returns ErrTokenInvalid if no such token exists.
	Get(ctx context.Context, email, secret string) (*certDomain.Token, error)

	// Consume atomically spends a token. Exactly one of two concurrent calls
	// for the same token succeeds; the loser gets ErrTokenInvalid.
	Consume(ctx context.Context, email, secret string) (*certDomain.Token, error)

	// DeleteExpired removes tokens created before the cutoff.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// RequestRepository defines persistence operations for pending certificate
// requests.
type RequestRepository interface {
	// Create stores a new certificate request.
	Create(ctx context.Context, request *certDomain.CertificateRequest) error

	// Get retrieves a request by ID. Returns ErrRequestNotFound if not found.
	Get(ctx context.Context, requestID uuid.UUID) (*certDomain.CertificateRequest, error)

	// Delete removes a request.
	Delete(ctx context.Context, requestID uuid.UUID) error

	// ListByOperator retrieves the pending requests assigned to an operator.
	ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*certDomain.CertificateRequest, error)
}

// CertificateRepository defines persistence operations for issued
// certificates.
type CertificateRepository interface {
	// Upsert stores an issued certificate, replacing any stored copy with
	// the same name.
	Upsert(ctx context.Context, certificate *certDomain.Certificate) error

	// GetByName retrieves a certificate by its full name.
	// Returns ErrCertificateNotFound if not found.
	GetByName(ctx context.Context, name string) (*certDomain.Certificate, error)

	// List retrieves certificates ordered by name.
	List(ctx context.Context, offset, limit int) ([]*certDomain.Certificate, error)
}

// RequestTokenInput carries the fields of a token request.
type RequestTokenInput struct {
	Email      string // Requester's email address
	SitePrefix string // Chosen guest site prefix, empty for regular requests
}

// TokenGrant is the outcome of a token request. For most requesters the
// token is emailed and only Delivered is set; users of the operators site
// have no reachable mailbox and get the confirmation URL directly.
type TokenGrant struct {
	Delivered  bool
	ConfirmURL string
}

// TokenUseCase issues verification tokens.
type TokenUseCase interface {
	// RequestToken resolves the namespace assignment for the email, stores a
	// fresh token, and emails it to the requester.
	RequestToken(ctx context.Context, input *RequestTokenInput) (*TokenGrant, error)

	// CleanExpired removes tokens older than the retention period.
	CleanExpired(ctx context.Context, retention time.Duration) (int64, error)
}

// SubmitRequestInput carries the fields of a certificate request submission.
type SubmitRequestInput struct {
	Email       string
	Token       string
	FullName    string
	HomeURL     string
	Group       string
	Advisor     string
	CertRequest string // Base64 wire encoding of the requested certificate
}

// RequestUseCase handles certificate request submission and operator listing.
type RequestUseCase interface {
	// Submit validates the token and the requested name, consumes the token,
	// stores the pending request, and notifies the responsible operator.
	// The token survives validation failures that precede consumption
	// (missing full name); any failure after consumption is terminal and the
	// token stays spent.
	Submit(ctx context.Context, input *SubmitRequestInput) (*certDomain.CertificateRequest, error)

	// ListForOperator verifies the signed command and returns the pending
	// requests of the operator that signed it.
	ListForOperator(ctx context.Context, commandBase64 string) ([]*certDomain.CertificateRequest, error)
}

// DecideInput carries an operator's decision on a pending request.
type DecideInput struct {
	RequestID uuid.UUID
	Command   string // Base64 signed command authenticating the operator
	Data      string // Base64 Data packet: certificate to approve, empty content to deny
}

// DecisionOutcome reports what a decision did.
type DecisionOutcome struct {
	Approved bool
	CertName string // Full certificate name when approved
}

// DecisionUseCase applies operator decisions to pending requests.
type DecisionUseCase interface {
	// Decide verifies the signed command and applies the decision carried in
	// the data packet: a packet with content stores the certificate and
	// notifies the requester of issuance, a packet with empty content denies
	// the request. The pending request is removed either way.
	Decide(ctx context.Context, input *DecideInput) (*DecisionOutcome, error)
}

// CertificateValidity is the decoded validity view of a stored certificate.
type CertificateValidity struct {
	Name      string
	NotBefore time.Time
	NotAfter  time.Time
	IsValid   bool
}

// CertificateUseCase serves issued certificates to the public.
type CertificateUseCase interface {
	// GetByName retrieves a stored certificate by its full name.
	GetByName(ctx context.Context, name string) (*certDomain.Certificate, error)

	// GetValidity retrieves a stored certificate and decodes its validity
	// period.
	GetValidity(ctx context.Context, name string) (*CertificateValidity, error)

	// List retrieves stored certificates ordered by name.
	List(ctx context.Context, offset, limit int) ([]*certDomain.Certificate, error)
}

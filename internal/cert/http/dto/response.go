package dto

import (
	"time"

	"github.com/google/uuid"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
)

// TokenResponse acknowledges a token request. ConfirmURL is only set for
// requesters whose token is handed back directly instead of emailed.
type TokenResponse struct {
	Delivered  bool   `json:"delivered"`
	ConfirmURL string `json:"confirm_url,omitempty"`
}

// NewTokenResponse converts a token grant to a response payload.
func NewTokenResponse(grant *certUseCase.TokenGrant) TokenResponse {
	return TokenResponse{
		Delivered:  grant.Delivered,
		ConfirmURL: grant.ConfirmURL,
	}
}

// RequestResponse is one pending certificate request.
type RequestResponse struct {
	ID                uuid.UUID `json:"id"`
	AssignedNamespace string    `json:"assigned_namespace"`
	FullName          string    `json:"fullname,omitempty"`
	Organization      string    `json:"organization,omitempty"`
	Email             string    `json:"email"`
	HomeURL           string    `json:"homeurl,omitempty"`
	Group             string    `json:"group,omitempty"`
	Advisor           string    `json:"advisor,omitempty"`
	CertRequest       string    `json:"cert_request"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewRequestResponse converts a certificate request to a response payload.
func NewRequestResponse(request *certDomain.CertificateRequest) RequestResponse {
	return RequestResponse{
		ID:                request.ID,
		AssignedNamespace: request.AssignedNamespace,
		FullName:          request.FullName,
		Organization:      request.Organization,
		Email:             request.Email,
		HomeURL:           request.HomeURL,
		Group:             request.Group,
		Advisor:           request.Advisor,
		CertRequest:       request.CertRequest,
		CreatedAt:         request.CreatedAt,
	}
}

// RequestListResponse is the pending request listing for an operator.
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
}

// NewRequestListResponse converts certificate requests to the listing payload.
func NewRequestListResponse(requests []*certDomain.CertificateRequest) RequestListResponse {
	items := make([]RequestResponse, 0, len(requests))
	for _, request := range requests {
		items = append(items, NewRequestResponse(request))
	}
	return RequestListResponse{Requests: items}
}

// DecisionResponse reports the outcome of an operator decision.
type DecisionResponse struct {
	Approved bool   `json:"approved"`
	CertName string `json:"cert_name,omitempty"`
}

// NewDecisionResponse converts a decision outcome to a response payload.
func NewDecisionResponse(outcome *certUseCase.DecisionOutcome) DecisionResponse {
	return DecisionResponse{
		Approved: outcome.Approved,
		CertName: outcome.CertName,
	}
}

// CertificateValidityResponse is the decoded validity view of a stored
// certificate.
type CertificateValidityResponse struct {
	Name      string    `json:"name"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	IsValid   bool      `json:"is_valid"`
}

// NewCertificateValidityResponse converts a validity view to a response payload.
func NewCertificateValidityResponse(validity *certUseCase.CertificateValidity) CertificateValidityResponse {
	return CertificateValidityResponse{
		Name:      validity.Name,
		NotBefore: validity.NotBefore,
		NotAfter:  validity.NotAfter,
		IsValid:   validity.IsValid,
	}
}

// CertificateResponse is one stored certificate in a listing.
type CertificateResponse struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CertificateListResponse is a page of stored certificates.
type CertificateListResponse struct {
	Certificates []CertificateResponse `json:"certificates"`
	Offset       int                   `json:"offset"`
	Limit        int                   `json:"limit"`
}

// NewCertificateListResponse converts stored certificates to the listing payload.
func NewCertificateListResponse(certificates []*certDomain.Certificate, offset, limit int) CertificateListResponse {
	items := make([]CertificateResponse, 0, len(certificates))
	for _, certificate := range certificates {
		items = append(items, CertificateResponse{
			Name:      certificate.Name,
			CreatedAt: certificate.CreatedAt,
		})
	}
	return CertificateListResponse{Certificates: items, Offset: offset, Limit: limit}
}

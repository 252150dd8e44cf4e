// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	rules "github.com/ndn-testbed/ndncert/internal/validation"
)

// RequestTokenRequest contains the parameters for requesting a verification
// token. SitePrefix selects a guest site and is empty for regular requests.
type RequestTokenRequest struct {
	Email      string `json:"email" binding:"required"`
	SitePrefix string `json:"site_prefix"`
}

// Validate checks if the token request is valid.
func (r *RequestTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			rules.Email,
		),
		validation.Field(&r.SitePrefix,
			rules.NameURI,
		),
	)
}

// SubmitRequestRequest contains the parameters for submitting a certificate
// request. FullName is required for non-guest submissions; the workflow
// enforces that, not the payload.
type SubmitRequestRequest struct {
	Email       string `json:"email" binding:"required"`
	Token       string `json:"token" binding:"required"`
	FullName    string `json:"fullname"`
	HomeURL     string `json:"homeurl"`
	Group       string `json:"group"`
	Advisor     string `json:"advisor"`
	CertRequest string `json:"cert_request" binding:"required"`
}

// Validate checks if the certificate request submission is valid.
func (r *SubmitRequestRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			rules.Email,
		),
		validation.Field(&r.Token,
			validation.Required,
			rules.VerificationToken,
		),
		validation.Field(&r.CertRequest,
			validation.Required,
			rules.Base64,
		),
	)
}

// ListRequestsRequest contains the signed command authenticating an operator
// listing their pending requests.
type ListRequestsRequest struct {
	Command string `json:"command" binding:"required"`
}

// Validate checks if the listing request is valid.
func (r *ListRequestsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Command,
			validation.Required,
			rules.Base64,
		),
	)
}

// DecideRequest contains an operator's decision on a pending request. Data is
// the base64 Data packet: content carries the issued certificate, empty
// content denies the request.
type DecideRequest struct {
	Command string `json:"command" binding:"required"`
	Data    string `json:"data" binding:"required"`
}

// Validate checks if the decision payload is valid.
func (r *DecideRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Command,
			validation.Required,
			rules.Base64,
		),
		validation.Field(&r.Data,
			validation.Required,
			rules.Base64,
		),
	)
}

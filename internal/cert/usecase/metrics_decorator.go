package usecase

import (
	"context"
	"time"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/metrics"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RequestToken records metrics for token issuance.
func (t *tokenUseCaseWithMetrics) RequestToken(
	ctx context.Context,
	input *RequestTokenInput,
) (*TokenGrant, error) {
	start := time.Now()
	grant, err := t.next.RequestToken(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "cert", "request_token", status)
	t.metrics.RecordDuration(ctx, "cert", "request_token", time.Since(start), status)

	return grant, err
}

// CleanExpired records metrics for token cleanup runs.
func (t *tokenUseCaseWithMetrics) CleanExpired(
	ctx context.Context,
	retention time.Duration,
) (int64, error) {
	start := time.Now()
	removed, err := t.next.CleanExpired(ctx, retention)

	status := "success"
	if err != nil {
		status = "error"
	}

	t.metrics.RecordOperation(ctx, "cert", "clean_expired_tokens", status)
	t.metrics.RecordDuration(ctx, "cert", "clean_expired_tokens", time.Since(start), status)

	return removed, err
}

// requestUseCaseWithMetrics decorates RequestUseCase with metrics instrumentation.
type requestUseCaseWithMetrics struct {
	next    RequestUseCase
	metrics metrics.BusinessMetrics
}

// NewRequestUseCaseWithMetrics wraps a RequestUseCase with metrics recording.
func NewRequestUseCaseWithMetrics(useCase RequestUseCase, m metrics.BusinessMetrics) RequestUseCase {
	return &requestUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Submit records metrics for request submissions.
func (r *requestUseCaseWithMetrics) Submit(
	ctx context.Context,
	input *SubmitRequestInput,
) (*certDomain.CertificateRequest, error) {
	start := time.Now()
	request, err := r.next.Submit(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "cert", "submit_request", status)
	r.metrics.RecordDuration(ctx, "cert", "submit_request", time.Since(start), status)

	return request, err
}

// ListForOperator records metrics for operator request listings.
func (r *requestUseCaseWithMetrics) ListForOperator(
	ctx context.Context,
	commandBase64 string,
) ([]*certDomain.CertificateRequest, error) {
	start := time.Now()
	requests, err := r.next.ListForOperator(ctx, commandBase64)

	status := "success"
	if err != nil {
		status = "error"
	}

	r.metrics.RecordOperation(ctx, "cert", "list_requests", status)
	r.metrics.RecordDuration(ctx, "cert", "list_requests", time.Since(start), status)

	return requests, err
}

// decisionUseCaseWithMetrics decorates DecisionUseCase with metrics instrumentation.
type decisionUseCaseWithMetrics struct {
	next    DecisionUseCase
	metrics metrics.BusinessMetrics
}

// NewDecisionUseCaseWithMetrics wraps a DecisionUseCase with metrics recording.
func NewDecisionUseCaseWithMetrics(useCase DecisionUseCase, m metrics.BusinessMetrics) DecisionUseCase {
	return &decisionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Decide records metrics for operator decisions.
func (d *decisionUseCaseWithMetrics) Decide(
	ctx context.Context,
	input *DecideInput,
) (*DecisionOutcome, error) {
	start := time.Now()
	outcome, err := d.next.Decide(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "cert", "decide", status)
	d.metrics.RecordDuration(ctx, "cert", "decide", time.Since(start), status)

	return outcome, err
}

// certificateUseCaseWithMetrics decorates CertificateUseCase with metrics instrumentation.
type certificateUseCaseWithMetrics struct {
	next    CertificateUseCase
	metrics metrics.BusinessMetrics
}

// NewCertificateUseCaseWithMetrics wraps a CertificateUseCase with metrics recording.
func NewCertificateUseCaseWithMetrics(
	useCase CertificateUseCase,
	m metrics.BusinessMetrics,
) CertificateUseCase {
	return &certificateUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// GetByName records metrics for certificate downloads.
func (c *certificateUseCaseWithMetrics) GetByName(
	ctx context.Context,
	name string,
) (*certDomain.Certificate, error) {
	start := time.Now()
	cert, err := c.next.GetByName(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "cert", "get_certificate", status)
	c.metrics.RecordDuration(ctx, "cert", "get_certificate", time.Since(start), status)

	return cert, err
}

// GetValidity records metrics for validity checks.
func (c *certificateUseCaseWithMetrics) GetValidity(
	ctx context.Context,
	name string,
) (*CertificateValidity, error) {
	start := time.Now()
	validity, err := c.next.GetValidity(ctx, name)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "cert", "get_validity", status)
	c.metrics.RecordDuration(ctx, "cert", "get_validity", time.Since(start), status)

	return validity, err
}

// List records metrics for certificate listings.
func (c *certificateUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*certDomain.Certificate, error) {
	start := time.Now()
	certs, err := c.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "cert", "list_certificates", status)
	c.metrics.RecordDuration(ctx, "cert", "list_certificates", time.Since(start), status)

	return certs, err
}

package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/cert/service"
	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/mailer"
	"github.com/ndn-testbed/ndncert/internal/ndn"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// Request implements RequestUseCase.
type Request struct {
	tokenRepository   TokenRepository
	requestRepository RequestRepository
	policy            *service.NamespacePolicy
	verifier          *service.CommandVerifier
	txManager         database.TxManager
	mailer            mailer.Mailer
	logger            *slog.Logger
}

// NewRequest creates a new request use case.
func NewRequest(
	tokenRepository TokenRepository,
	requestRepository RequestRepository,
	policy *service.NamespacePolicy,
	verifier *service.CommandVerifier,
	txManager database.TxManager,
	mail mailer.Mailer,
	logger *slog.Logger,
) *Request {
	return &Request{
		tokenRepository:   tokenRepository,
		requestRepository: requestRepository,
		policy:            policy,
		verifier:          verifier,
		txManager:         txManager,
		mailer:            mail,
		logger:            logger,
	}
}

// Submit validates a certificate request submission and stores it for the
// responsible operator. Validation runs against an unspent copy of the token
// first, so a submission rejected for a missing full name or a name outside
// the assigned namespace leaves the token usable. The consume and the insert
// share a transaction; of two concurrent submissions with the same token
// exactly one stores a request.
func (r *Request) Submit(
	ctx context.Context,
	input *SubmitRequestInput,
) (*certDomain.CertificateRequest, error) {
	token, err := r.tokenRepository.Get(ctx, input.Email, input.Token)
	if err != nil {
		return nil, err
	}

	operator, assignment, err := r.policy.Resolve(ctx, input.Email, token.SitePrefix)
	if err != nil {
		return nil, err
	}

	if assignment.RequireFullName && input.FullName == "" {
		return nil, certDomain.ErrFullNameRequired
	}

	cert, err := ndn.DecodeCertificateBase64(input.CertRequest)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "certificate request: %v", err)
	}
	namespace, err := ndn.ParseName(assignment.Namespace)
	if err != nil {
		return nil, err
	}
	if !namespace.IsPrefixOf(cert.Name) {
		return nil, certDomain.ErrNamespaceMismatch
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate request id")
	}

	request := &certDomain.CertificateRequest{
		ID:                id,
		OperatorID:        assignment.OperatorID,
		SitePrefix:        token.SitePrefix,
		AssignedNamespace: assignment.Namespace,
		FullName:          input.FullName,
		Organization:      operator.SiteName,
		Email:             input.Email,
		HomeURL:           input.HomeURL,
		Group:             input.Group,
		Advisor:           input.Advisor,
		CertRequest:       input.CertRequest,
		CreatedAt:         time.Now().UTC(),
	}

	err = r.txManager.WithTx(ctx, func(ctx context.Context) error {
		if _, err := r.tokenRepository.Consume(ctx, input.Email, input.Token); err != nil {
			return err
		}
		return r.requestRepository.Create(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	r.notifyOperator(ctx, operator, assignment, request)

	return request, nil
}

// notifyOperator emails the responsible operator about the pending request.
// Delivery failures are logged; the request is already stored.
func (r *Request) notifyOperator(
	ctx context.Context,
	operator *operatorDomain.Operator,
	assignment *certDomain.Assignment,
	request *certDomain.CertificateRequest,
) {
	if assignment.Guest && operator.SkipGuestRequestNotify {
		return
	}
	if !assignment.Guest && operator.SkipRequestNotify {
		return
	}

	msg, err := mailer.ComposeOperatorNotifyEmail([]string{operator.Email}, mailer.OperatorNotifyEmail{
		FullName:  request.FullName,
		Email:     request.Email,
		Namespace: request.AssignedNamespace,
		SiteName:  operator.SiteName,
	})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to compose operator notification",
			slog.String("error", err.Error()))
		return
	}
	if err := r.mailer.Send(ctx, msg); err != nil {
		r.logger.ErrorContext(ctx, "failed to notify operator",
			slog.String("operator_email", operator.Email),
			slog.String("error", err.Error()))
	}
}

// ListForOperator verifies the signed command and returns the pending
// requests of the operator that signed it.
func (r *Request) ListForOperator(
	ctx context.Context,
	commandBase64 string,
) ([]*certDomain.CertificateRequest, error) {
	operator, _, err := r.verifier.Verify(ctx, commandBase64)
	if err != nil {
		return nil, err
	}
	return r.requestRepository.ListByOperator(ctx, operator.ID)
}

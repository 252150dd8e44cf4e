package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
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

// Decision implements DecisionUseCase.
type Decision struct {
	requestRepository     RequestRepository
	certificateRepository CertificateRepository
	operators             OperatorLookup
	verifier              *service.CommandVerifier
	txManager             database.TxManager
	mailer                mailer.Mailer
	baseURL               string
	logger                *slog.Logger
}

// NewDecision creates a new decision use case.
func NewDecision(
	requestRepository RequestRepository,
	certificateRepository CertificateRepository,
	operators OperatorLookup,
	verifier *service.CommandVerifier,
	txManager database.TxManager,
	mail mailer.Mailer,
	baseURL string,
	logger *slog.Logger,
) *Decision {
	return &Decision{
		requestRepository:     requestRepository,
		certificateRepository: certificateRepository,
		operators:             operators,
		verifier:              verifier,
		txManager:             txManager,
		mailer:                mail,
		baseURL:               baseURL,
		logger:                logger,
	}
}

// Decide applies an operator's decision to a pending request. The data packet
// carries the decision: content holds the issued certificate, empty content
// denies the request. An operator may only decide requests assigned to their
// own site. A request whose own operator has been removed from the directory
// is deleted on sight and the decision rejected.
func (d *Decision) Decide(ctx context.Context, input *DecideInput) (*DecisionOutcome, error) {
	operator, _, err := d.verifier.Verify(ctx, input.Command)
	if err != nil {
		return nil, err
	}

	request, err := d.requestRepository.Get(ctx, input.RequestID)
	if err != nil {
		if apperrors.Is(err, certDomain.ErrRequestNotFound) {
			return nil, apperrors.Wrap(certDomain.ErrCommandForbidden, "no such request")
		}
		return nil, err
	}
	if request.OperatorID != operator.ID {
		if err := d.purgeIfOrphaned(ctx, request); err != nil {
			return nil, err
		}
		return nil, apperrors.Wrap(certDomain.ErrCommandForbidden,
			"request belongs to another operator")
	}

	wire, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "decision data: %v", err)
	}
	data, err := ndn.DecodeData(wire)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "decision data: %v", err)
	}

	if len(data.Content) == 0 {
		if err := d.deny(ctx, request); err != nil {
			return nil, err
		}
		return &DecisionOutcome{Approved: false}, nil
	}

	cert, err := ndn.DecodeCertificate(wire)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "issued certificate: %v", err)
	}
	if err := d.approve(ctx, request, cert, input.Data, operator.SitePrefix); err != nil {
		return nil, err
	}
	return &DecisionOutcome{Approved: true, CertName: cert.Name.String()}, nil
}

// purgeIfOrphaned removes a request whose operator no longer exists. A
// directory replacement can drop an operator while its requests are still
// pending; such requests can never be decided, so they are deleted when
// encountered.
func (d *Decision) purgeIfOrphaned(ctx context.Context, request *certDomain.CertificateRequest) error {
	_, err := d.operators.Get(ctx, request.OperatorID)
	if err == nil {
		return nil
	}
	if !apperrors.Is(err, operatorDomain.ErrOperatorNotFound) {
		return err
	}
	d.logger.InfoContext(ctx, "purging request with missing operator",
		slog.String("request_id", request.ID.String()),
		slog.String("operator_id", request.OperatorID.String()))
	return d.requestRepository.Delete(ctx, request.ID)
}

// approve stores the issued certificate and removes the pending request in
// one transaction, then mails the requester the download link.
func (d *Decision) approve(
	ctx context.Context,
	request *certDomain.CertificateRequest,
	cert ndn.Certificate,
	dataBase64 string,
	sitePrefix string,
) error {
	id, err := uuid.NewV7()
	if err != nil {
		return apperrors.Wrap(err, "failed to generate certificate id")
	}

	stored := &certDomain.Certificate{
		ID:         id,
		Name:       cert.Name.String(),
		OperatorID: request.OperatorID,
		SitePrefix: sitePrefix,
		Data:       dataBase64,
		CreatedAt:  time.Now().UTC(),
	}

	err = d.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := d.certificateRepository.Upsert(ctx, stored); err != nil {
			return err
		}
		return d.requestRepository.Delete(ctx, request.ID)
	})
	if err != nil {
		return err
	}

	// The key id component identifies the certificate in testbed tooling,
	// /<identity>/KEY/<key-id>/<issuer>/<version>.
	var keyID string
	if cert.Name.Size() >= 3 {
		keyID = string(cert.Name.At(-3))
	}
	msg, err := mailer.ComposeCertIssuedEmail(request.Email, mailer.CertIssuedEmail{
		CertName:    stored.Name,
		KeyID:       keyID,
		DownloadURL: d.downloadURL(stored.Name),
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to compose issuance email",
			slog.String("error", err.Error()))
		return nil
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.ErrorContext(ctx, "failed to send issuance email",
			slog.String("email", request.Email),
			slog.String("error", err.Error()))
	}
	return nil
}

// deny removes the pending request and mails the requester a denial notice.
func (d *Decision) deny(ctx context.Context, request *certDomain.CertificateRequest) error {
	if err := d.requestRepository.Delete(ctx, request.ID); err != nil {
		return err
	}

	msg, err := mailer.ComposeCertRejectedEmail(request.Email, mailer.CertRejectedEmail{
		Namespace: request.AssignedNamespace,
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to compose denial email",
			slog.String("error", err.Error()))
		return nil
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		d.logger.ErrorContext(ctx, "failed to send denial email",
			slog.String("email", request.Email),
			slog.String("error", err.Error()))
	}
	return nil
}

func (d *Decision) downloadURL(certName string) string {
	values := url.Values{}
	values.Set("name", certName)
	return fmt.Sprintf("%s/v1/certs?%s", d.baseURL, values.Encode())
}

package usecase

import (
	"context"
	"time"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/ndn"
)

// Certificate implements CertificateUseCase.
type Certificate struct {
	certificateRepository CertificateRepository
}

// NewCertificate creates a new certificate use case.
func NewCertificate(certificateRepository CertificateRepository) *Certificate {
	return &Certificate{certificateRepository: certificateRepository}
}

// GetByName retrieves a stored certificate by its full name.
func (c *Certificate) GetByName(ctx context.Context, name string) (*certDomain.Certificate, error) {
	return c.certificateRepository.GetByName(ctx, name)
}

// GetValidity retrieves a stored certificate and decodes its validity period.
func (c *Certificate) GetValidity(ctx context.Context, name string) (*CertificateValidity, error) {
	stored, err := c.certificateRepository.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	cert, err := ndn.DecodeCertificateBase64(stored.Data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "stored certificate %s", stored.Name)
	}
	validity, err := cert.Validity()
	if err != nil {
		return nil, apperrors.Wrapf(err, "stored certificate %s", stored.Name)
	}

	return &CertificateValidity{
		Name:      stored.Name,
		NotBefore: validity.NotBefore,
		NotAfter:  validity.NotAfter,
		IsValid:   validity.Contains(time.Now().UTC()),
	}, nil
}

// List retrieves stored certificates ordered by name.
func (c *Certificate) List(ctx context.Context, offset, limit int) ([]*certDomain.Certificate, error) {
	return c.certificateRepository.List(ctx, offset, limit)
}

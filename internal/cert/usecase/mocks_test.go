package usecase

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/mailer"
	"github.com/ndn-testbed/ndncert/internal/ndn"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// mockTokenRepository is a mock implementation of TokenRepository for testing.
type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) Create(ctx context.Context, token *certDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) Get(ctx context.Context, email, secret string) (*certDomain.Token, error) {
	args := m.Called(ctx, email, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certDomain.Token), args.Error(1)
}

func (m *mockTokenRepository) Consume(ctx context.Context, email, secret string) (*certDomain.Token, error) {
	args := m.Called(ctx, email, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certDomain.Token), args.Error(1)
}

func (m *mockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// mockRequestRepository is a mock implementation of RequestRepository for testing.
type mockRequestRepository struct {
	mock.Mock
}

func (m *mockRequestRepository) Create(ctx context.Context, request *certDomain.CertificateRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *mockRequestRepository) Get(ctx context.Context, requestID uuid.UUID) (*certDomain.CertificateRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certDomain.CertificateRequest), args.Error(1)
}

func (m *mockRequestRepository) Delete(ctx context.Context, requestID uuid.UUID) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *mockRequestRepository) ListByOperator(ctx context.Context, operatorID uuid.UUID) ([]*certDomain.CertificateRequest, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*certDomain.CertificateRequest), args.Error(1)
}

// mockCertificateRepository is a mock implementation of CertificateRepository for testing.
type mockCertificateRepository struct {
	mock.Mock
}

func (m *mockCertificateRepository) Upsert(ctx context.Context, certificate *certDomain.Certificate) error {
	args := m.Called(ctx, certificate)
	return args.Error(0)
}

func (m *mockCertificateRepository) GetByName(ctx context.Context, name string) (*certDomain.Certificate, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certDomain.Certificate), args.Error(1)
}

func (m *mockCertificateRepository) List(ctx context.Context, offset, limit int) ([]*certDomain.Certificate, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*certDomain.Certificate), args.Error(1)
}

// mockDirectory is a mock implementation of service.OperatorDirectory and
// OperatorLookup for testing.
type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) Get(ctx context.Context, operatorID uuid.UUID) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockDirectory) GetByEmailDomain(ctx context.Context, domain string) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockDirectory) GetBySitePrefix(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, sitePrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockDirectory) GetGuestSite(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, sitePrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

// mockMailer is a mock implementation of mailer.Mailer for testing.
type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// mockTokenGenerator is a mock implementation of service.TokenGenerator for testing.
type mockTokenGenerator struct {
	mock.Mock
}

func (m *mockTokenGenerator) Generate(length int) (string, error) {
	args := m.Called(length)
	return args.String(0), args.Error(1)
}

// operatorIdentity bundles an operator record with the key that signs its
// commands.
type operatorIdentity struct {
	operator *operatorDomain.Operator
	signer   *ecdsa.PrivateKey
	certName ndn.Name
}

// newOperatorIdentity creates an operator whose verification certificate
// matches a freshly generated signing key.
func newOperatorIdentity(t *testing.T, sitePrefix string) *operatorIdentity {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	site, err := ndn.ParseName(sitePrefix)
	require.NoError(t, err)
	certName := site.Append("opid", "KEY", "keyid", "NA", "v1")

	data := ndn.Data{
		Name:    certName,
		Content: der,
		SignatureInfo: ndn.SignatureInfo{
			Type:           ndn.SignatureSha256WithEcdsa,
			KeyLocatorName: certName,
			HasKeyLocator:  true,
		},
	}
	require.NoError(t, ndn.SignData(priv, &data))

	id, err := uuid.NewV7()
	require.NoError(t, err)

	return &operatorIdentity{
		operator: &operatorDomain.Operator{
			ID:         id,
			SiteName:   "Example University",
			SitePrefix: sitePrefix,
			SiteEmails: []string{"example.edu"},
			Name:       "Op Name",
			Email:      "op@example.edu",
			Key:        base64.StdEncoding.EncodeToString(data.Encode()),
		},
		signer:   priv,
		certName: certName,
	}
}

// signedCommand builds a base64 command signed with the identity's key.
func (oi *operatorIdentity) signedCommand(t *testing.T) string {
	t.Helper()

	site, err := ndn.ParseName(oi.operator.SitePrefix)
	require.NoError(t, err)
	wire, err := ndn.BuildSignedCommand(
		oi.signer, ndn.SignatureSha256WithEcdsa, oi.certName, site, "requests", "list")
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(wire)
}

// certDataBase64 builds a base64 Data packet carrying a fresh public key
// under the given name. The signature value is a placeholder; decoding does
// not verify it.
func certDataBase64(t *testing.T, name ndn.Name) string {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	data := ndn.Data{
		Name:           name,
		Content:        der,
		SignatureInfo:  ndn.SignatureInfo{Type: ndn.SignatureSha256WithEcdsa},
		SignatureValue: []byte{0x01},
	}
	return base64.StdEncoding.EncodeToString(data.Encode())
}

// emptyDataBase64 builds a base64 Data packet with empty content, the wire
// form of a denial.
func emptyDataBase64(t *testing.T, name ndn.Name) string {
	t.Helper()

	data := ndn.Data{
		Name:           name,
		SignatureInfo:  ndn.SignatureInfo{Type: ndn.SignatureSha256WithEcdsa},
		SignatureValue: []byte{0x01},
	}
	return base64.StdEncoding.EncodeToString(data.Encode())
}

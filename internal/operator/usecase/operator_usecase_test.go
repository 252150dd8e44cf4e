package usecase

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/ndn-testbed/ndncert/internal/database/mocks"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/ndn"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// mockOperatorRepository is a mock implementation of OperatorRepository for testing.
type mockOperatorRepository struct {
	mock.Mock
}

func (m *mockOperatorRepository) ReplaceAll(ctx context.Context, operators []*operatorDomain.Operator) error {
	args := m.Called(ctx, operators)
	return args.Error(0)
}

func (m *mockOperatorRepository) Get(ctx context.Context, operatorID uuid.UUID) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockOperatorRepository) GetByEmailDomain(ctx context.Context, domain string) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockOperatorRepository) GetBySitePrefix(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, sitePrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockOperatorRepository) GetGuestSite(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error) {
	args := m.Called(ctx, sitePrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*operatorDomain.Operator), args.Error(1)
}

func (m *mockOperatorRepository) ListGuestSites(ctx context.Context) ([]*operatorDomain.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*operatorDomain.Operator), args.Error(1)
}

// testCertificateBase64 builds a decodable certificate for import records.
func testCertificateBase64(t *testing.T) string {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	data := ndn.Data{
		Name:           ndn.NewName("ndn", "edu", "example", "op", "KEY", "k1", "NA", "v1"),
		Content:        der,
		SignatureInfo:  ndn.SignatureInfo{Type: ndn.SignatureSha256WithEcdsa},
		SignatureValue: []byte{0x01},
	}
	return base64.StdEncoding.EncodeToString(data.Encode())
}

func operatorsFile(t *testing.T, records map[string]map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(records)
	require.NoError(t, err)
	return data
}

func TestOperatorUseCase_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReplacesDirectory", func(t *testing.T) {
		key := testCertificateBase64(t)
		file := operatorsFile(t, map[string]map[string]any{
			"EXAMPLE": {
				"site_name":   "Example University",
				"site_prefix": "/ndn/edu/example",
				"site_emails": []string{"example.edu", "cs.example.edu"},
				"name":        "Op Name",
				"email":       "op@example.edu",
				"key":         key,
				"allowGuests": true,
			},
			"GUESTS": {
				"site_name":           "Guest Site",
				"site_prefix":         "/ndn/guest",
				"site_emails":         "guest",
				"name":                "Guest Op",
				"email":               "guests@named-data.net",
				"key":                 key,
				"doNotSendOpRequests": true,
			},
		})

		repo := new(mockOperatorRepository)
		repo.On("ReplaceAll", mock.Anything, mock.MatchedBy(func(operators []*operatorDomain.Operator) bool {
			if len(operators) != 2 {
				return false
			}
			// Keys are sorted, so EXAMPLE comes first.
			return operators[0].SitePrefix == "/ndn/edu/example" &&
				operators[0].AllowGuests &&
				operators[1].SiteEmails[0] == "guest" &&
				operators[1].SkipRequestNotify
		})).Return(nil)

		useCase := NewOperator(repo, databaseMocks.NewMockTxManager(t))
		count, err := useCase.Import(ctx, file)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		repo.AssertExpectations(t)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		repo := new(mockOperatorRepository)
		useCase := NewOperator(repo, databaseMocks.NewMockTxManager(t))

		_, err := useCase.Import(ctx, []byte("not json"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		repo.AssertNotCalled(t, "ReplaceAll")
	})

	t.Run("Error_MissingSitePrefix", func(t *testing.T) {
		file := operatorsFile(t, map[string]map[string]any{
			"BAD": {"site_name": "Bad", "site_emails": "bad.edu"},
		})
		repo := new(mockOperatorRepository)
		useCase := NewOperator(repo, databaseMocks.NewMockTxManager(t))

		_, err := useCase.Import(ctx, file)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_BadCertificate", func(t *testing.T) {
		file := operatorsFile(t, map[string]map[string]any{
			"BAD": {
				"site_name":   "Bad Site",
				"site_prefix": "/ndn/edu/bad",
				"site_emails": "bad.edu",
				"key":         "bm90IGEgY2VydA==",
			},
		})
		repo := new(mockOperatorRepository)
		useCase := NewOperator(repo, databaseMocks.NewMockTxManager(t))

		_, err := useCase.Import(ctx, file)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "ReplaceAll")
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		key := testCertificateBase64(t)
		file := operatorsFile(t, map[string]map[string]any{
			"EXAMPLE": {
				"site_name":   "Example",
				"site_prefix": "/ndn/edu/example",
				"site_emails": "example.edu",
				"key":         key,
			},
		})
		repo := new(mockOperatorRepository)
		repo.On("ReplaceAll", mock.Anything, mock.Anything).Return(errors.New("db down"))

		useCase := NewOperator(repo, databaseMocks.NewMockTxManager(t))
		_, err := useCase.Import(ctx, file)
		assert.Error(t, err)
	})
}

func TestOperatorUseCase_ListGuestSites(t *testing.T) {
	ctx := context.Background()

	expected := []*operatorDomain.Operator{
		{SiteName: "Example University", SitePrefix: "/ndn/edu/example", AllowGuests: true},
	}
	repo := new(mockOperatorRepository)
	repo.On("ListGuestSites", mock.Anything).Return(expected, nil)

	useCase := NewOperator(repo, databaseMocks.NewMockTxManager(t))
	operators, err := useCase.ListGuestSites(ctx)

	require.NoError(t, err)
	assert.Equal(t, expected, operators)
}

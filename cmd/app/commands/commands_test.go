package commands

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) RequestToken(
	ctx context.Context,
	input *certUseCase.RequestTokenInput,
) (*certUseCase.TokenGrant, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*certUseCase.TokenGrant), args.Error(1)
}

func (m *mockTokenUseCase) CleanExpired(ctx context.Context, retention time.Duration) (int64, error) {
	args := m.Called(ctx, retention)
	return args.Get(0).(int64), args.Error(1)
}

type mockOperatorUseCase struct {
	mock.Mock
}

func (m *mockOperatorUseCase) Import(ctx context.Context, fileData []byte) (int, error) {
	args := m.Called(ctx, fileData)
	return args.Int(0), args.Error(1)
}

func (m *mockOperatorUseCase) ListGuestSites(ctx context.Context) ([]*operatorDomain.Operator, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*operatorDomain.Operator), args.Error(1)
}

package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunCleanExpiredTokens(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)
	retention := 24 * time.Hour

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, retention).Return(int64(10), nil)

		var out bytes.Buffer
		err := RunCleanExpiredTokens(ctx, mockUseCase, logger, &out, retention, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 10 expired token(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, retention).Return(int64(5), nil)

		var out bytes.Buffer
		err := RunCleanExpiredTokens(ctx, mockUseCase, logger, &out, retention, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
		require.Contains(t, out.String(), `"retention": "24h0m0s"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-retention", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		err := RunCleanExpiredTokens(ctx, mockUseCase, logger, &bytes.Buffer{}, -time.Hour, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "retention must be a positive duration")
	})

	t.Run("usecase-error", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockUseCase.On("CleanExpired", ctx, retention).Return(int64(0), errors.New("db down"))

		err := RunCleanExpiredTokens(ctx, mockUseCase, logger, &bytes.Buffer{}, retention, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired tokens")
		mockUseCase.AssertExpectations(t)
	})
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
)

// RunCleanExpiredTokens deletes verification tokens older than the retention
// period. Supports both text and JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(
	ctx context.Context,
	useCase certUseCase.TokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	retention time.Duration,
	format string,
) error {
	if retention <= 0 {
		return fmt.Errorf("retention must be a positive duration, got: %s", retention)
	}

	logger.Info("cleaning expired tokens",
		slog.Duration("retention", retention),
	)

	count, err := useCase.CleanExpired(ctx, retention)
	if err != nil {
		return fmt.Errorf("failed to clean expired tokens: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(out, count, retention)
	} else {
		outputCleanExpiredText(out, count, retention)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Duration("retention", retention),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(out io.Writer, count int64, retention time.Duration) {
	fmt.Fprintf(out, "Successfully deleted %d expired token(s) older than %s\n", count, retention)
}

// outputCleanExpiredJSON outputs the result in JSON format for machine consumption.
func outputCleanExpiredJSON(out io.Writer, count int64, retention time.Duration) {
	result := map[string]interface{}{
		"count":     count,
		"retention": retention.String(),
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	operatorUseCase "github.com/ndn-testbed/ndncert/internal/operator/usecase"
)

// RunImportOperators replaces the operator directory with the records from an
// operators JSON file. The whole import fails if any record is invalid, so a
// bad file never leaves the directory half-replaced.
//
// Requirements: Database must be migrated and accessible.
func RunImportOperators(
	ctx context.Context,
	useCase operatorUseCase.OperatorUseCase,
	logger *slog.Logger,
	out io.Writer,
	filePath string,
	format string,
) error {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read operators file: %w", err)
	}

	logger.Info("importing operators",
		slog.String("file", filePath),
	)

	count, err := useCase.Import(ctx, fileData)
	if err != nil {
		return fmt.Errorf("failed to import operators: %w", err)
	}

	if format == "json" {
		outputImportOperatorsJSON(out, count, filePath)
	} else {
		fmt.Fprintf(out, "Successfully imported %d operator(s) from %s\n", count, filePath)
	}

	logger.Info("import completed",
		slog.Int("count", count),
		slog.String("file", filePath),
	)

	return nil
}

// outputImportOperatorsJSON outputs the result in JSON format for machine consumption.
func outputImportOperatorsJSON(out io.Writer, count int, filePath string) {
	result := map[string]interface{}{
		"count": count,
		"file":  filePath,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(out, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Fprintln(out, string(jsonBytes))
}

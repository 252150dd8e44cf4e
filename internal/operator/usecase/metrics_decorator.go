package usecase

import (
	"context"
	"time"

	"github.com/ndn-testbed/ndncert/internal/metrics"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// operatorUseCaseWithMetrics decorates OperatorUseCase with metrics instrumentation.
type operatorUseCaseWithMetrics struct {
	next    OperatorUseCase
	metrics metrics.BusinessMetrics
}

// NewOperatorUseCaseWithMetrics wraps an OperatorUseCase with metrics recording.
func NewOperatorUseCaseWithMetrics(useCase OperatorUseCase, m metrics.BusinessMetrics) OperatorUseCase {
	return &operatorUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Import records metrics for directory imports.
func (o *operatorUseCaseWithMetrics) Import(ctx context.Context, fileData []byte) (int, error) {
	start := time.Now()
	count, err := o.next.Import(ctx, fileData)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "operator", "import", status)
	o.metrics.RecordDuration(ctx, "operator", "import", time.Since(start), status)

	return count, err
}

// ListGuestSites records metrics for guest site listings.
func (o *operatorUseCaseWithMetrics) ListGuestSites(
	ctx context.Context,
) ([]*operatorDomain.Operator, error) {
	start := time.Now()
	operators, err := o.next.ListGuestSites(ctx)

	status := "success"
	if err != nil {
		status = "error"
	}

	o.metrics.RecordOperation(ctx, "operator", "list_guest_sites", status)
	o.metrics.RecordDuration(ctx, "operator", "list_guest_sites", time.Since(start), status)

	return operators, err
}

// Package usecase defines business logic for the operator directory.
package usecase

import (
	"context"

	"github.com/google/uuid"

	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// OperatorRepository defines persistence operations for the operator
// directory. Implementations must support transaction-aware operations via
// context propagation.
type OperatorRepository interface {
	// ReplaceAll removes every record and inserts the given set.
	ReplaceAll(ctx context.Context, operators []*operatorDomain.Operator) error

	// Get retrieves an operator by ID. Returns ErrOperatorNotFound if not found.
	Get(ctx context.Context, operatorID uuid.UUID) (*operatorDomain.Operator, error)

	// GetByEmailDomain retrieves the operator whose site serves the given
	// email domain. Returns ErrOperatorNotFound if no site serves it.
	GetByEmailDomain(ctx context.Context, domain string) (*operatorDomain.Operator, error)

	// GetBySitePrefix retrieves an operator by site prefix.
	GetBySitePrefix(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error)

	// GetGuestSite retrieves an operator by site prefix when the site accepts
	// guests. Returns ErrOperatorNotFound otherwise.
	GetGuestSite(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error)

	// ListGuestSites retrieves every operator whose site accepts guests.
	ListGuestSites(ctx context.Context) ([]*operatorDomain.Operator, error)
}

// OperatorUseCase defines business logic operations for the operator
// directory.
type OperatorUseCase interface {
	// Import replaces the whole directory with the records in an operators
	// JSON file and returns how many operators were imported. Records with
	// an undecodable verification certificate fail the whole import.
	Import(ctx context.Context, fileData []byte) (int, error)

	// ListGuestSites returns the sites that accept guest users.
	ListGuestSites(ctx context.Context) ([]*operatorDomain.Operator, error)
}

package domain

import (
	"github.com/ndn-testbed/ndncert/internal/errors"
)

// Operator directory errors.
var (
	// ErrOperatorNotFound indicates no operator record matched the lookup.
	ErrOperatorNotFound = errors.Wrap(errors.ErrNotFound, "operator not found")
)

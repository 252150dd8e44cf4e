// Package mocks provides test doubles for the database package.
package mocks

import (
	"context"
	"testing"
)

// MockTxManager is a pass-through TxManager for use case tests. It executes
// the callback without a real transaction so repository mocks see the same
// context they were called with.
type MockTxManager struct {
	t testing.TB
	// CallCount records how many times WithTx was invoked.
	CallCount int
	// Err, when set, is returned without executing the callback.
	Err error
}

// NewMockTxManager creates a new MockTxManager bound to the test.
func NewMockTxManager(t testing.TB) *MockTxManager {
	t.Helper()
	return &MockTxManager{t: t}
}

// WithTx executes fn directly, recording the call.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.CallCount++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

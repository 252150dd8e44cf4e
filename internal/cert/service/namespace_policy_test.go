package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// fakeDirectory is an in-memory operator directory for policy tests.
type fakeDirectory struct {
	operators []*operatorDomain.Operator
}

func (d *fakeDirectory) GetByEmailDomain(_ context.Context, domain string) (*operatorDomain.Operator, error) {
	for _, operator := range d.operators {
		if operator.ServesDomain(domain) {
			return operator, nil
		}
	}
	return nil, operatorDomain.ErrOperatorNotFound
}

func (d *fakeDirectory) GetBySitePrefix(_ context.Context, sitePrefix string) (*operatorDomain.Operator, error) {
	for _, operator := range d.operators {
		if operator.SitePrefix == sitePrefix {
			return operator, nil
		}
	}
	return nil, operatorDomain.ErrOperatorNotFound
}

func (d *fakeDirectory) GetGuestSite(_ context.Context, sitePrefix string) (*operatorDomain.Operator, error) {
	for _, operator := range d.operators {
		if operator.SitePrefix == sitePrefix && operator.AllowGuests {
			return operator, nil
		}
	}
	return nil, operatorDomain.ErrOperatorNotFound
}

func newPolicyFixture() (*NamespacePolicy, *fakeDirectory, map[string]uuid.UUID) {
	ids := map[string]uuid.UUID{
		"example":   uuid.Must(uuid.NewV7()),
		"operators": uuid.Must(uuid.NewV7()),
		"guest":     uuid.Must(uuid.NewV7()),
	}
	directory := &fakeDirectory{operators: []*operatorDomain.Operator{
		{
			ID:          ids["example"],
			SitePrefix:  "/ndn/edu/example",
			SiteEmails:  []string{"example.edu", "cs.example.edu"},
			AllowGuests: true,
		},
		{
			ID:         ids["operators"],
			SitePrefix: "/ndn",
			SiteEmails: []string{"operators.named-data.net"},
		},
		{
			ID:          ids["guest"],
			SitePrefix:  "/ndn/guest",
			SiteEmails:  []string{"guest"},
			AllowGuests: true,
		},
	}}
	return NewNamespacePolicy(directory), directory, ids
}

func TestNamespacePolicy_Resolve(t *testing.T) {
	ctx := context.Background()
	policy, _, ids := newPolicyFixture()

	tests := []struct {
		name              string
		email             string
		sitePrefix        string
		expectedNamespace string
		expectedOperator  string
		requireFullName   bool
		guest             bool
	}{
		{
			name:              "registered domain reverses labels",
			email:             "alice@cs.example.edu",
			expectedNamespace: "/ndn/edu/example/cs/alice",
			expectedOperator:  "example",
			requireFullName:   true,
		},
		{
			name:              "registered top level domain",
			email:             "alice@example.edu",
			expectedNamespace: "/ndn/edu/example/alice",
			expectedOperator:  "example",
			requireFullName:   true,
		},
		{
			name:              "operators site uses bare local part",
			email:             "bob@operators.named-data.net",
			expectedNamespace: "/bob",
			expectedOperator:  "operators",
			requireFullName:   true,
		},
		{
			name:              "unknown domain falls back to guest operator",
			email:             "carol@unknown.example",
			expectedNamespace: "/ndn/guest/carol@unknown.example",
			expectedOperator:  "guest",
			requireFullName:   true,
		},
		{
			name:              "guest site selection",
			email:             "dave@anywhere.example",
			sitePrefix:        "/ndn/edu/example",
			expectedNamespace: "/ndn/edu/example/@GUEST/dave@anywhere.example",
			expectedOperator:  "example",
			guest:             true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			operator, assignment, err := policy.Resolve(ctx, tt.email, tt.sitePrefix)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedNamespace, assignment.Namespace)
			assert.Equal(t, ids[tt.expectedOperator], operator.ID)
			assert.Equal(t, ids[tt.expectedOperator], assignment.OperatorID)
			assert.Equal(t, tt.requireFullName, assignment.RequireFullName)
			assert.Equal(t, tt.guest, assignment.Guest)
		})
	}
}

func TestNamespacePolicy_Resolve_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("guest site not accepting guests", func(t *testing.T) {
		policy, _, _ := newPolicyFixture()
		_, _, err := policy.Resolve(ctx, "dave@anywhere.example", "/ndn")
		assert.ErrorIs(t, err, certDomain.ErrUnknownSite)
	})

	t.Run("unknown site prefix", func(t *testing.T) {
		policy, _, _ := newPolicyFixture()
		_, _, err := policy.Resolve(ctx, "dave@anywhere.example", "/ndn/nowhere")
		assert.ErrorIs(t, err, certDomain.ErrUnknownSite)
	})

	t.Run("no guest fallback configured", func(t *testing.T) {
		policy := NewNamespacePolicy(&fakeDirectory{operators: []*operatorDomain.Operator{
			{ID: uuid.Must(uuid.NewV7()), SitePrefix: "/ndn/edu/example", SiteEmails: []string{"example.edu"}},
		}})
		_, _, err := policy.Resolve(ctx, "carol@unknown.example", "")
		assert.ErrorIs(t, err, certDomain.ErrUnknownSite)
	})

	t.Run("malformed email", func(t *testing.T) {
		policy, _, _ := newPolicyFixture()
		for _, email := range []string{"no-at-sign", "@no-local", "no-domain@"} {
			_, _, err := policy.Resolve(ctx, email, "")
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput, email)
		}
	})
}

package service

import (
	"context"
	"strings"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/ndn"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// operatorsSiteDomain is the email domain whose users are assigned their bare
// local part as namespace.
const operatorsSiteDomain = "operators.named-data.net"

// guestFallbackPrefix is the namespace root for users whose email domain no
// site serves.
const guestFallbackPrefix = "/ndn/guest"

// OperatorDirectory is the lookup surface the policy needs from the operator
// module.
type OperatorDirectory interface {
	GetByEmailDomain(ctx context.Context, domain string) (*operatorDomain.Operator, error)
	GetBySitePrefix(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error)
	GetGuestSite(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error)
}

// NamespacePolicy derives the namespace a requester may obtain a certificate
// under, and which operator is responsible for the decision.
type NamespacePolicy struct {
	directory OperatorDirectory
}

// NewNamespacePolicy creates a namespace policy over the operator directory.
func NewNamespacePolicy(directory OperatorDirectory) *NamespacePolicy {
	return &NamespacePolicy{directory: directory}
}

// Resolve assigns a namespace for the given email. A non-empty sitePrefix
// selects a guest site; otherwise the assignment is derived from the email
// domain:
//
//   - a domain served by a site maps to /ndn/<reversed domain labels>/<local part>
//   - the operators site maps to /<local part>
//   - any other domain falls back to the guest operator under
//     /ndn/guest/<email>, when a guest operator exists
func (p *NamespacePolicy) Resolve(
	ctx context.Context,
	email string,
	sitePrefix string,
) (*operatorDomain.Operator, *certDomain.Assignment, error) {
	if sitePrefix != "" {
		return p.resolveGuestSite(ctx, email, sitePrefix)
	}
	return p.resolveEmail(ctx, email)
}

func (p *NamespacePolicy) resolveGuestSite(
	ctx context.Context,
	email string,
	sitePrefix string,
) (*operatorDomain.Operator, *certDomain.Assignment, error) {
	operator, err := p.directory.GetGuestSite(ctx, sitePrefix)
	if err != nil {
		if apperrors.Is(err, operatorDomain.ErrOperatorNotFound) {
			return nil, nil, certDomain.ErrUnknownSite
		}
		return nil, nil, err
	}

	site, err := ndn.ParseName(operator.SitePrefix)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "invalid operator site prefix")
	}

	return operator, &certDomain.Assignment{
		OperatorID: operator.ID,
		Namespace:  site.Append("@GUEST", email).String(),
		Guest:      true,
	}, nil
}

func (p *NamespacePolicy) resolveEmail(
	ctx context.Context,
	email string,
) (*operatorDomain.Operator, *certDomain.Assignment, error) {
	localPart, domain, ok := strings.Cut(email, "@")
	if !ok || localPart == "" || domain == "" {
		return nil, nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "malformed email %q", email)
	}

	operator, err := p.directory.GetByEmailDomain(ctx, domain)
	if err != nil {
		if apperrors.Is(err, operatorDomain.ErrOperatorNotFound) {
			return p.resolveGuestFallback(ctx, email)
		}
		return nil, nil, err
	}

	var namespace string
	if domain == operatorsSiteDomain {
		namespace = ndn.NewName(localPart).String()
	} else {
		namespace = reverseDomain(domain).Append(localPart).String()
	}

	return operator, &certDomain.Assignment{
		OperatorID:      operator.ID,
		Namespace:       namespace,
		RequireFullName: true,
	}, nil
}

// resolveGuestFallback assigns /ndn/guest/<email> under the guest operator
// for email domains no site serves.
func (p *NamespacePolicy) resolveGuestFallback(
	ctx context.Context,
	email string,
) (*operatorDomain.Operator, *certDomain.Assignment, error) {
	operator, err := p.directory.GetByEmailDomain(ctx, operatorDomain.GuestDomainMarker)
	if err != nil {
		if apperrors.Is(err, operatorDomain.ErrOperatorNotFound) {
			return nil, nil, certDomain.ErrUnknownSite
		}
		return nil, nil, err
	}

	fallback, err := ndn.ParseName(guestFallbackPrefix)
	if err != nil {
		return nil, nil, err
	}

	return operator, &certDomain.Assignment{
		OperatorID:      operator.ID,
		Namespace:       fallback.Append(email).String(),
		RequireFullName: true,
	}, nil
}

// IsOperatorsSiteEmail reports whether the address belongs to the operators
// site.
func IsOperatorsSiteEmail(email string) bool {
	_, domain, ok := strings.Cut(email, "@")
	return ok && domain == operatorsSiteDomain
}

// reverseDomain maps a DNS name to its NDN form under /ndn, reversing the
// label order: "cs.example.edu" becomes /ndn/edu/example/cs.
func reverseDomain(domain string) ndn.Name {
	labels := strings.Split(domain, ".")
	name := ndn.NewName("ndn")
	for i := len(labels) - 1; i >= 0; i-- {
		name = name.Append(labels[i])
	}
	return name
}

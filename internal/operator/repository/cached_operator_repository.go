package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// operatorReader is the lookup surface the cache decorates.
type operatorReader interface {
	ReplaceAll(ctx context.Context, operators []*operatorDomain.Operator) error
	Get(ctx context.Context, operatorID uuid.UUID) (*operatorDomain.Operator, error)
	GetByEmailDomain(ctx context.Context, domain string) (*operatorDomain.Operator, error)
	GetBySitePrefix(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error)
	GetGuestSite(ctx context.Context, sitePrefix string) (*operatorDomain.Operator, error)
	ListGuestSites(ctx context.Context) ([]*operatorDomain.Operator, error)
}

// CachedOperatorRepository is a read-through cache over an operator
// repository. The directory changes only on import, so lookups are cached for
// a short TTL and the whole cache is flushed when the directory is replaced.
type CachedOperatorRepository struct {
	next  operatorReader
	cache *gocache.Cache
}

// NewCachedOperatorRepository wraps a repository with a read-through cache
// using the given TTL.
func NewCachedOperatorRepository(next operatorReader, ttl time.Duration) *CachedOperatorRepository {
	return &CachedOperatorRepository{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// ReplaceAll delegates to the wrapped repository and flushes the cache.
func (c *CachedOperatorRepository) ReplaceAll(
	ctx context.Context,
	operators []*operatorDomain.Operator,
) error {
	if err := c.next.ReplaceAll(ctx, operators); err != nil {
		return err
	}
	c.cache.Flush()
	return nil
}

// Get retrieves an operator by ID, consulting the cache first.
func (c *CachedOperatorRepository) Get(
	ctx context.Context,
	operatorID uuid.UUID,
) (*operatorDomain.Operator, error) {
	return c.lookup(ctx, "id:"+operatorID.String(), func() (*operatorDomain.Operator, error) {
		return c.next.Get(ctx, operatorID)
	})
}

// GetByEmailDomain retrieves the operator serving an email domain, consulting
// the cache first.
func (c *CachedOperatorRepository) GetByEmailDomain(
	ctx context.Context,
	domain string,
) (*operatorDomain.Operator, error) {
	return c.lookup(ctx, "domain:"+domain, func() (*operatorDomain.Operator, error) {
		return c.next.GetByEmailDomain(ctx, domain)
	})
}

// GetBySitePrefix retrieves the operator for a site prefix, consulting the
// cache first.
func (c *CachedOperatorRepository) GetBySitePrefix(
	ctx context.Context,
	sitePrefix string,
) (*operatorDomain.Operator, error) {
	return c.lookup(ctx, "prefix:"+sitePrefix, func() (*operatorDomain.Operator, error) {
		return c.next.GetBySitePrefix(ctx, sitePrefix)
	})
}

// GetGuestSite retrieves the guest operator for a site prefix, consulting the
// cache first.
func (c *CachedOperatorRepository) GetGuestSite(
	ctx context.Context,
	sitePrefix string,
) (*operatorDomain.Operator, error) {
	return c.lookup(ctx, "guest:"+sitePrefix, func() (*operatorDomain.Operator, error) {
		return c.next.GetGuestSite(ctx, sitePrefix)
	})
}

// ListGuestSites retrieves the guest site list, consulting the cache first.
func (c *CachedOperatorRepository) ListGuestSites(
	ctx context.Context,
) ([]*operatorDomain.Operator, error) {
	const key = "guest-sites"
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]*operatorDomain.Operator), nil
	}
	operators, err := c.next.ListGuestSites(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, operators)
	return operators, nil
}

// lookup serves a single-operator read from the cache, falling back to the
// wrapped repository. Misses are not negatively cached: an unknown domain
// stays a repository round trip until the directory serves it.
func (c *CachedOperatorRepository) lookup(
	_ context.Context,
	key string,
	load func() (*operatorDomain.Operator, error),
) (*operatorDomain.Operator, error) {
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*operatorDomain.Operator), nil
	}
	operator, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, operator)
	return operator, nil
}

// Package repository implements persistence for the issuance workflow:
// verification tokens, pending certificate requests, and issued certificates.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16)
// types. Token consumption is the concurrency-critical operation: PostgreSQL
// uses DELETE ... RETURNING, MySQL uses SELECT ... FOR UPDATE plus DELETE
// inside the ambient transaction, so two concurrent submissions can never
// both spend the same token.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// PostgreSQLTokenRepository implements token persistence for PostgreSQL.
type PostgreSQLTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLTokenRepository creates a new PostgreSQL token repository.
func NewPostgreSQLTokenRepository(db *sql.DB) *PostgreSQLTokenRepository {
	return &PostgreSQLTokenRepository{db: db}
}

// Create inserts a new token.
func (p *PostgreSQLTokenRepository) Create(ctx context.Context, token *certDomain.Token) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO tokens (id, email, secret, site_prefix, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.Email,
		token.Secret,
		token.SitePrefix,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// Get retrieves a token by email and secret without spending it.
// Returns ErrTokenInvalid if no such token exists.
func (p *PostgreSQLTokenRepository) Get(
	ctx context.Context,
	email, secret string,
) (*certDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, email, secret, site_prefix, created_at FROM tokens
			  WHERE email = $1 AND secret = $2`

	var token certDomain.Token
	err := querier.QueryRowContext(ctx, query, email, secret).Scan(
		&token.ID,
		&token.Email,
		&token.Secret,
		&token.SitePrefix,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrTokenInvalid
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return &token, nil
}

// Consume atomically spends a token: the row is deleted and returned in one
// statement, so exactly one of two concurrent calls succeeds.
// Returns ErrTokenInvalid when the token does not exist or was already spent.
func (p *PostgreSQLTokenRepository) Consume(
	ctx context.Context,
	email, secret string,
) (*certDomain.Token, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM tokens WHERE email = $1 AND secret = $2
			  RETURNING id, email, secret, site_prefix, created_at`

	var token certDomain.Token
	err := querier.QueryRowContext(ctx, query, email, secret).Scan(
		&token.ID,
		&token.Email,
		&token.Secret,
		&token.SitePrefix,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrTokenInvalid
		}
		return nil, apperrors.Wrap(err, "failed to consume token")
	}
	return &token, nil
}

// DeleteExpired removes tokens created before the cutoff and reports how many
// were removed.
func (p *PostgreSQLTokenRepository) DeleteExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE created_at < $1`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted tokens")
	}
	return count, nil
}

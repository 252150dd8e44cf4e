package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// MySQLTokenRepository implements token persistence for MySQL. IDs are stored
// as BINARY(16).
type MySQLTokenRepository struct {
	db *sql.DB
}

// NewMySQLTokenRepository creates a new MySQL token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}

// Create inserts a new token.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *certDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, email, secret, site_prefix, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID[:],
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
func (m *MySQLTokenRepository) Get(
	ctx context.Context,
	email, secret string,
) (*certDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, email, secret, site_prefix, created_at FROM tokens
			  WHERE email = ? AND secret = ?`

	token, err := scanMySQLToken(querier.QueryRowContext(ctx, query, email, secret))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrTokenInvalid
		}
		return nil, apperrors.Wrap(err, "failed to get token")
	}
	return token, nil
}

// Consume spends a token with a SELECT ... FOR UPDATE followed by a DELETE.
// MySQL has no DELETE ... RETURNING, so the caller must run Consume inside a
// transaction; the row lock makes one of two concurrent calls block and then
// fail with ErrTokenInvalid after the winner's delete commits.
func (m *MySQLTokenRepository) Consume(
	ctx context.Context,
	email, secret string,
) (*certDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, email, secret, site_prefix, created_at FROM tokens
			  WHERE email = ? AND secret = ? FOR UPDATE`

	token, err := scanMySQLToken(querier.QueryRowContext(ctx, query, email, secret))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrTokenInvalid
		}
		return nil, apperrors.Wrap(err, "failed to lock token")
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, token.ID[:]); err != nil {
		return nil, apperrors.Wrap(err, "failed to consume token")
	}
	return token, nil
}

// DeleteExpired removes tokens created before the cutoff and reports how many
// were removed.
func (m *MySQLTokenRepository) DeleteExpired(
	ctx context.Context,
	before time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM tokens WHERE created_at < ?`, before)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired tokens")
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted tokens")
	}
	return count, nil
}

func scanMySQLToken(row *sql.Row) (*certDomain.Token, error) {
	var token certDomain.Token
	var id []byte

	err := row.Scan(&id, &token.Email, &token.Secret, &token.SitePrefix, &token.CreatedAt)
	if err != nil {
		return nil, err
	}

	tokenID, err := uuid.FromBytes(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode token id")
	}
	token.ID = tokenID
	return &token, nil
}

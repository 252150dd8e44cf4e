// Package repository implements persistence for the operator directory.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). The site_emails list is stored as a JSON column so a
// single query can answer "which site serves this email domain".
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// PostgreSQLOperatorRepository implements operator persistence for PostgreSQL.
// site_emails is a JSONB column queried with the containment operator.
type PostgreSQLOperatorRepository struct {
	db *sql.DB
}

// NewPostgreSQLOperatorRepository creates a new PostgreSQL operator repository.
func NewPostgreSQLOperatorRepository(db *sql.DB) *PostgreSQLOperatorRepository {
	return &PostgreSQLOperatorRepository{db: db}
}

const pgOperatorColumns = `id, site_name, site_prefix, site_emails, name, email, verify_key,
	allow_guests, skip_request_notify, skip_guest_request_notify, created_at`

// ReplaceAll removes every operator record and inserts the given set. The
// caller is expected to run this inside a transaction so a failed import
// never leaves the directory empty.
func (p *PostgreSQLOperatorRepository) ReplaceAll(
	ctx context.Context,
	operators []*operatorDomain.Operator,
) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM operators`); err != nil {
		return apperrors.Wrap(err, "failed to clear operators")
	}

	query := `INSERT INTO operators (` + pgOperatorColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, operator := range operators {
		siteEmails, err := json.Marshal(operator.SiteEmails)
		if err != nil {
			return apperrors.Wrap(err, "failed to encode site emails")
		}
		_, err = querier.ExecContext(
			ctx,
			query,
			operator.ID,
			operator.SiteName,
			operator.SitePrefix,
			siteEmails,
			operator.Name,
			operator.Email,
			operator.Key,
			operator.AllowGuests,
			operator.SkipRequestNotify,
			operator.SkipGuestRequestNotify,
			operator.CreatedAt,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to insert operator")
		}
	}
	return nil
}

// Get retrieves an operator by ID.
func (p *PostgreSQLOperatorRepository) Get(
	ctx context.Context,
	operatorID uuid.UUID,
) (*operatorDomain.Operator, error) {
	query := `SELECT ` + pgOperatorColumns + ` FROM operators WHERE id = $1`
	return p.queryOne(ctx, query, operatorID)
}

// GetByEmailDomain retrieves the operator whose site serves the given email
// domain.
func (p *PostgreSQLOperatorRepository) GetByEmailDomain(
	ctx context.Context,
	domain string,
) (*operatorDomain.Operator, error) {
	candidate, err := json.Marshal([]string{domain})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode email domain")
	}
	query := `SELECT ` + pgOperatorColumns + ` FROM operators WHERE site_emails @> $1::jsonb`
	return p.queryOne(ctx, query, candidate)
}

// GetBySitePrefix retrieves the operator for a site prefix.
func (p *PostgreSQLOperatorRepository) GetBySitePrefix(
	ctx context.Context,
	sitePrefix string,
) (*operatorDomain.Operator, error) {
	query := `SELECT ` + pgOperatorColumns + ` FROM operators WHERE site_prefix = $1`
	return p.queryOne(ctx, query, sitePrefix)
}

// GetGuestSite retrieves the operator for a site prefix, but only when the
// site accepts guests.
func (p *PostgreSQLOperatorRepository) GetGuestSite(
	ctx context.Context,
	sitePrefix string,
) (*operatorDomain.Operator, error) {
	query := `SELECT ` + pgOperatorColumns + ` FROM operators
			  WHERE site_prefix = $1 AND allow_guests = TRUE`
	return p.queryOne(ctx, query, sitePrefix)
}

// ListGuestSites retrieves every operator whose site accepts guests, ordered
// by site name.
func (p *PostgreSQLOperatorRepository) ListGuestSites(
	ctx context.Context,
) ([]*operatorDomain.Operator, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgOperatorColumns + ` FROM operators
			  WHERE allow_guests = TRUE ORDER BY site_name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list guest sites")
	}
	defer rows.Close()

	var operators []*operatorDomain.Operator
	for rows.Next() {
		operator, err := scanOperator(rows.Scan)
		if err != nil {
			return nil, err
		}
		operators = append(operators, operator)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list guest sites")
	}
	return operators, nil
}

func (p *PostgreSQLOperatorRepository) queryOne(
	ctx context.Context,
	query string,
	args ...any,
) (*operatorDomain.Operator, error) {
	querier := database.GetTx(ctx, p.db)

	operator, err := scanOperator(querier.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, operatorDomain.ErrOperatorNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get operator")
	}
	return operator, nil
}

// scanOperator scans one operator row; the scan argument order must match the
// shared column list.
func scanOperator(scan func(dest ...any) error) (*operatorDomain.Operator, error) {
	var operator operatorDomain.Operator
	var siteEmails []byte

	err := scan(
		&operator.ID,
		&operator.SiteName,
		&operator.SitePrefix,
		&siteEmails,
		&operator.Name,
		&operator.Email,
		&operator.Key,
		&operator.AllowGuests,
		&operator.SkipRequestNotify,
		&operator.SkipGuestRequestNotify,
		&operator.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(siteEmails, &operator.SiteEmails); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode site emails")
	}
	return &operator, nil
}

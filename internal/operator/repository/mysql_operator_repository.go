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

// MySQLOperatorRepository implements operator persistence for MySQL.
// IDs are stored as BINARY(16) and site_emails as a JSON column queried
// with JSON_CONTAINS.
type MySQLOperatorRepository struct {
	db *sql.DB
}

// NewMySQLOperatorRepository creates a new MySQL operator repository.
func NewMySQLOperatorRepository(db *sql.DB) *MySQLOperatorRepository {
	return &MySQLOperatorRepository{db: db}
}

const mysqlOperatorColumns = `id, site_name, site_prefix, site_emails, name, email, verify_key,
	allow_guests, skip_request_notify, skip_guest_request_notify, created_at`

// ReplaceAll removes every operator record and inserts the given set. The
// caller is expected to run this inside a transaction so a failed import
// never leaves the directory empty.
func (m *MySQLOperatorRepository) ReplaceAll(
	ctx context.Context,
	operators []*operatorDomain.Operator,
) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM operators`); err != nil {
		return apperrors.Wrap(err, "failed to clear operators")
	}

	query := `INSERT INTO operators (` + mysqlOperatorColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, operator := range operators {
		siteEmails, err := json.Marshal(operator.SiteEmails)
		if err != nil {
			return apperrors.Wrap(err, "failed to encode site emails")
		}
		_, err = querier.ExecContext(
			ctx,
			query,
			operator.ID[:],
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
func (m *MySQLOperatorRepository) Get(
	ctx context.Context,
	operatorID uuid.UUID,
) (*operatorDomain.Operator, error) {
	query := `SELECT ` + mysqlOperatorColumns + ` FROM operators WHERE id = ?`
	return m.queryOne(ctx, query, operatorID[:])
}

// GetByEmailDomain retrieves the operator whose site serves the given email
// domain.
func (m *MySQLOperatorRepository) GetByEmailDomain(
	ctx context.Context,
	domain string,
) (*operatorDomain.Operator, error) {
	candidate, err := json.Marshal(domain)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode email domain")
	}
	query := `SELECT ` + mysqlOperatorColumns + ` FROM operators
			  WHERE JSON_CONTAINS(site_emails, ?)`
	return m.queryOne(ctx, query, candidate)
}

// GetBySitePrefix retrieves the operator for a site prefix.
func (m *MySQLOperatorRepository) GetBySitePrefix(
	ctx context.Context,
	sitePrefix string,
) (*operatorDomain.Operator, error) {
	query := `SELECT ` + mysqlOperatorColumns + ` FROM operators WHERE site_prefix = ?`
	return m.queryOne(ctx, query, sitePrefix)
}

// GetGuestSite retrieves the operator for a site prefix, but only when the
// site accepts guests.
func (m *MySQLOperatorRepository) GetGuestSite(
	ctx context.Context,
	sitePrefix string,
) (*operatorDomain.Operator, error) {
	query := `SELECT ` + mysqlOperatorColumns + ` FROM operators
			  WHERE site_prefix = ? AND allow_guests = TRUE`
	return m.queryOne(ctx, query, sitePrefix)
}

// ListGuestSites retrieves every operator whose site accepts guests, ordered
// by site name.
func (m *MySQLOperatorRepository) ListGuestSites(
	ctx context.Context,
) ([]*operatorDomain.Operator, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlOperatorColumns + ` FROM operators
			  WHERE allow_guests = TRUE ORDER BY site_name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list guest sites")
	}
	defer rows.Close()

	var operators []*operatorDomain.Operator
	for rows.Next() {
		operator, err := scanMySQLOperator(rows.Scan)
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

func (m *MySQLOperatorRepository) queryOne(
	ctx context.Context,
	query string,
	args ...any,
) (*operatorDomain.Operator, error) {
	querier := database.GetTx(ctx, m.db)

	operator, err := scanMySQLOperator(querier.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, operatorDomain.ErrOperatorNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get operator")
	}
	return operator, nil
}

// scanMySQLOperator scans one operator row, converting the BINARY(16) id.
func scanMySQLOperator(scan func(dest ...any) error) (*operatorDomain.Operator, error) {
	var operator operatorDomain.Operator
	var id []byte
	var siteEmails []byte

	err := scan(
		&id,
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

	operatorID, err := uuid.FromBytes(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode operator id")
	}
	operator.ID = operatorID

	if err := json.Unmarshal(siteEmails, &operator.SiteEmails); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode site emails")
	}
	return &operator, nil
}

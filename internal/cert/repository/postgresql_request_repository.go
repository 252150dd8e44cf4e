package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// PostgreSQLRequestRepository implements certificate request persistence for
// PostgreSQL.
type PostgreSQLRequestRepository struct {
	db *sql.DB
}

// NewPostgreSQLRequestRepository creates a new PostgreSQL request repository.
func NewPostgreSQLRequestRepository(db *sql.DB) *PostgreSQLRequestRepository {
	return &PostgreSQLRequestRepository{db: db}
}

const pgRequestColumns = `id, operator_id, site_prefix, assigned_namespace, fullname,
	organization, email, homeurl, research_group, advisor, cert_request, created_at`

// Create inserts a new certificate request.
func (p *PostgreSQLRequestRepository) Create(
	ctx context.Context,
	request *certDomain.CertificateRequest,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO requests (` + pgRequestColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := querier.ExecContext(
		ctx,
		query,
		request.ID,
		request.OperatorID,
		request.SitePrefix,
		request.AssignedNamespace,
		request.FullName,
		request.Organization,
		request.Email,
		request.HomeURL,
		request.Group,
		request.Advisor,
		request.CertRequest,
		request.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create certificate request")
	}
	return nil
}

// Get retrieves a certificate request by ID.
// Returns ErrRequestNotFound if not found.
func (p *PostgreSQLRequestRepository) Get(
	ctx context.Context,
	requestID uuid.UUID,
) (*certDomain.CertificateRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgRequestColumns + ` FROM requests WHERE id = $1`

	request, err := scanRequest(querier.QueryRowContext(ctx, query, requestID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate request")
	}
	return request, nil
}

// Delete removes a certificate request.
func (p *PostgreSQLRequestRepository) Delete(ctx context.Context, requestID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, requestID); err != nil {
		return apperrors.Wrap(err, "failed to delete certificate request")
	}
	return nil
}

// ListByOperator retrieves the pending requests assigned to an operator,
// oldest first.
func (p *PostgreSQLRequestRepository) ListByOperator(
	ctx context.Context,
	operatorID uuid.UUID,
) ([]*certDomain.CertificateRequest, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgRequestColumns + ` FROM requests
			  WHERE operator_id = $1 ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificate requests")
	}
	defer rows.Close()

	var requests []*certDomain.CertificateRequest
	for rows.Next() {
		request, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan certificate request")
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificate requests")
	}
	return requests, nil
}

// scanRequest scans one request row; the scan argument order must match the
// shared column list.
func scanRequest(scan func(dest ...any) error) (*certDomain.CertificateRequest, error) {
	var request certDomain.CertificateRequest
	err := scan(
		&request.ID,
		&request.OperatorID,
		&request.SitePrefix,
		&request.AssignedNamespace,
		&request.FullName,
		&request.Organization,
		&request.Email,
		&request.HomeURL,
		&request.Group,
		&request.Advisor,
		&request.CertRequest,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

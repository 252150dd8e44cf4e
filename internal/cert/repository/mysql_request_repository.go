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

// MySQLRequestRepository implements certificate request persistence for
// MySQL. IDs are stored as BINARY(16).
type MySQLRequestRepository struct {
	db *sql.DB
}

// NewMySQLRequestRepository creates a new MySQL request repository.
func NewMySQLRequestRepository(db *sql.DB) *MySQLRequestRepository {
	return &MySQLRequestRepository{db: db}
}

const mysqlRequestColumns = `id, operator_id, site_prefix, assigned_namespace, fullname,
	organization, email, homeurl, research_group, advisor, cert_request, created_at`

// Create inserts a new certificate request.
func (m *MySQLRequestRepository) Create(
	ctx context.Context,
	request *certDomain.CertificateRequest,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO requests (` + mysqlRequestColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		request.ID[:],
		request.OperatorID[:],
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
func (m *MySQLRequestRepository) Get(
	ctx context.Context,
	requestID uuid.UUID,
) (*certDomain.CertificateRequest, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRequestColumns + ` FROM requests WHERE id = ?`

	request, err := scanMySQLRequest(querier.QueryRowContext(ctx, query, requestID[:]).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrRequestNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate request")
	}
	return request, nil
}

// Delete removes a certificate request.
func (m *MySQLRequestRepository) Delete(ctx context.Context, requestID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, requestID[:]); err != nil {
		return apperrors.Wrap(err, "failed to delete certificate request")
	}
	return nil
}

// ListByOperator retrieves the pending requests assigned to an operator,
// oldest first.
func (m *MySQLRequestRepository) ListByOperator(
	ctx context.Context,
	operatorID uuid.UUID,
) ([]*certDomain.CertificateRequest, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlRequestColumns + ` FROM requests
			  WHERE operator_id = ? ORDER BY created_at`

	rows, err := querier.QueryContext(ctx, query, operatorID[:])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificate requests")
	}
	defer rows.Close()

	var requests []*certDomain.CertificateRequest
	for rows.Next() {
		request, err := scanMySQLRequest(rows.Scan)
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

// scanMySQLRequest scans one request row, converting the BINARY(16) ids.
func scanMySQLRequest(scan func(dest ...any) error) (*certDomain.CertificateRequest, error) {
	var request certDomain.CertificateRequest
	var id, operatorID []byte

	err := scan(
		&id,
		&operatorID,
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

	requestID, err := uuid.FromBytes(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode request id")
	}
	request.ID = requestID

	opID, err := uuid.FromBytes(operatorID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode operator id")
	}
	request.OperatorID = opID

	return &request, nil
}

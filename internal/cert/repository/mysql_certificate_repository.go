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

// MySQLCertificateRepository implements issued certificate persistence for
// MySQL. IDs are stored as BINARY(16).
type MySQLCertificateRepository struct {
	db *sql.DB
}

// NewMySQLCertificateRepository creates a new MySQL certificate repository.
func NewMySQLCertificateRepository(db *sql.DB) *MySQLCertificateRepository {
	return &MySQLCertificateRepository{db: db}
}

const mysqlCertificateColumns = `id, name, operator_id, site_prefix, data, created_at`

// Upsert stores an issued certificate. The certificate name is unique;
// re-issuing under the same name replaces the stored copy.
func (m *MySQLCertificateRepository) Upsert(
	ctx context.Context,
	certificate *certDomain.Certificate,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO certificates (` + mysqlCertificateColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
				  operator_id = VALUES(operator_id),
				  site_prefix = VALUES(site_prefix),
				  data = VALUES(data),
				  created_at = VALUES(created_at)`

	_, err := querier.ExecContext(
		ctx,
		query,
		certificate.ID[:],
		certificate.Name,
		certificate.OperatorID[:],
		certificate.SitePrefix,
		certificate.Data,
		certificate.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to store certificate")
	}
	return nil
}

// GetByName retrieves a certificate by its full name.
// Returns ErrCertificateNotFound if not found.
func (m *MySQLCertificateRepository) GetByName(
	ctx context.Context,
	name string,
) (*certDomain.Certificate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlCertificateColumns + ` FROM certificates WHERE name = ?`

	certificate, err := scanMySQLCertificate(querier.QueryRowContext(ctx, query, name).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate")
	}
	return certificate, nil
}

// List retrieves issued certificates ordered by name.
func (m *MySQLCertificateRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*certDomain.Certificate, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + mysqlCertificateColumns + ` FROM certificates
			  ORDER BY name LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	defer rows.Close()

	var certificates []*certDomain.Certificate
	for rows.Next() {
		certificate, err := scanMySQLCertificate(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan certificate")
		}
		certificates = append(certificates, certificate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	return certificates, nil
}

// scanMySQLCertificate scans one certificate row, converting the BINARY(16) ids.
func scanMySQLCertificate(scan func(dest ...any) error) (*certDomain.Certificate, error) {
	var certificate certDomain.Certificate
	var id, operatorID []byte

	err := scan(
		&id,
		&certificate.Name,
		&operatorID,
		&certificate.SitePrefix,
		&certificate.Data,
		&certificate.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	certificateID, err := uuid.FromBytes(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode certificate id")
	}
	certificate.ID = certificateID

	opID, err := uuid.FromBytes(operatorID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode operator id")
	}
	certificate.OperatorID = opID

	return &certificate, nil
}

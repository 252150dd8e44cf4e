package repository

import (
	"context"
	"database/sql"
	"errors"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
)

// PostgreSQLCertificateRepository implements issued certificate persistence
// for PostgreSQL.
type PostgreSQLCertificateRepository struct {
	db *sql.DB
}

// NewPostgreSQLCertificateRepository creates a new PostgreSQL certificate repository.
func NewPostgreSQLCertificateRepository(db *sql.DB) *PostgreSQLCertificateRepository {
	return &PostgreSQLCertificateRepository{db: db}
}

const pgCertificateColumns = `id, name, operator_id, site_prefix, data, created_at`

// Upsert stores an issued certificate. The certificate name is unique;
// re-issuing under the same name replaces the stored copy.
func (p *PostgreSQLCertificateRepository) Upsert(
	ctx context.Context,
	certificate *certDomain.Certificate,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO certificates (` + pgCertificateColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (name) DO UPDATE
			  SET operator_id = EXCLUDED.operator_id,
				  site_prefix = EXCLUDED.site_prefix,
				  data = EXCLUDED.data,
				  created_at = EXCLUDED.created_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		certificate.ID,
		certificate.Name,
		certificate.OperatorID,
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
func (p *PostgreSQLCertificateRepository) GetByName(
	ctx context.Context,
	name string,
) (*certDomain.Certificate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgCertificateColumns + ` FROM certificates WHERE name = $1`

	var certificate certDomain.Certificate
	err := querier.QueryRowContext(ctx, query, name).Scan(
		&certificate.ID,
		&certificate.Name,
		&certificate.OperatorID,
		&certificate.SitePrefix,
		&certificate.Data,
		&certificate.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, certDomain.ErrCertificateNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get certificate")
	}
	return &certificate, nil
}

// List retrieves issued certificates ordered by name.
func (p *PostgreSQLCertificateRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*certDomain.Certificate, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + pgCertificateColumns + ` FROM certificates
			  ORDER BY name OFFSET $1 LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	defer rows.Close()

	var certificates []*certDomain.Certificate
	for rows.Next() {
		var certificate certDomain.Certificate
		err := rows.Scan(
			&certificate.ID,
			&certificate.Name,
			&certificate.OperatorID,
			&certificate.SitePrefix,
			&certificate.Data,
			&certificate.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan certificate")
		}
		certificates = append(certificates, &certificate)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to list certificates")
	}
	return certificates, nil
}

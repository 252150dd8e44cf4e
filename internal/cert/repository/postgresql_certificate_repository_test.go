package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
)

var certificateColumns = []string{"id", "name", "operator_id", "site_prefix", "data", "created_at"}

func newTestCertificateRecord(t *testing.T) *certDomain.Certificate {
	t.Helper()
	return &certDomain.Certificate{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       "/ndn/edu/example/alice/KEY/k1/NA/v1",
		OperatorID: uuid.Must(uuid.NewV7()),
		SitePrefix: "/ndn/edu/example",
		Data:       "Y2VydC1kYXRh",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestPostgreSQLCertificateRepository_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	certificate := newTestCertificateRecord(t)
	mock.ExpectExec("INSERT INTO certificates (.+) ON CONFLICT \\(name\\) DO UPDATE").
		WithArgs(
			certificate.ID,
			certificate.Name,
			certificate.OperatorID,
			certificate.SitePrefix,
			certificate.Data,
			certificate.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewPostgreSQLCertificateRepository(db)
	err = repo.Upsert(context.Background(), certificate)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLCertificateRepository_GetByName(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		certificate := newTestCertificateRecord(t)
		mock.ExpectQuery("SELECT (.+) FROM certificates WHERE name").
			WithArgs(certificate.Name).
			WillReturnRows(sqlmock.NewRows(certificateColumns).AddRow(
				certificate.ID,
				certificate.Name,
				certificate.OperatorID,
				certificate.SitePrefix,
				certificate.Data,
				certificate.CreatedAt,
			))

		repo := NewPostgreSQLCertificateRepository(db)
		got, err := repo.GetByName(context.Background(), certificate.Name)

		require.NoError(t, err)
		assert.Equal(t, certificate.Data, got.Data)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM certificates WHERE name").
			WillReturnError(sql.ErrNoRows)

		repo := NewPostgreSQLCertificateRepository(db)
		_, err = repo.GetByName(context.Background(), "/ndn/missing")

		assert.ErrorIs(t, err, certDomain.ErrCertificateNotFound)
	})
}

func TestPostgreSQLCertificateRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	certificate := newTestCertificateRecord(t)
	mock.ExpectQuery("SELECT (.+) FROM certificates\\s+ORDER BY name OFFSET \\$1 LIMIT \\$2").
		WithArgs(0, 50).
		WillReturnRows(sqlmock.NewRows(certificateColumns).AddRow(
			certificate.ID,
			certificate.Name,
			certificate.OperatorID,
			certificate.SitePrefix,
			certificate.Data,
			certificate.CreatedAt,
		))

	repo := NewPostgreSQLCertificateRepository(db)
	certificates, err := repo.List(context.Background(), 0, 50)

	require.NoError(t, err)
	require.Len(t, certificates, 1)
	assert.Equal(t, certificate.Name, certificates[0].Name)
}

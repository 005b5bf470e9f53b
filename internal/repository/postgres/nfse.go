package postgres

import (
	"context"
	"database/sql"

	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/postgres"
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/cockroachdb/errors"
)

type nfseRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewNfseRepository(db *postgres.DB, logger *logger.Logger) nfse.Repository {
	return &nfseRepository{db: db, logger: logger}
}

func (r *nfseRepository) Create(ctx context.Context, n *nfse.NfseInvoice) error {
	query := `
		INSERT INTO nfse_invoices (
			id, enrollment_id, year, month, nfse_status, attempts, submission_id,
			official_number, verification_code, error_reason, cancelled_at,
			status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :enrollment_id, :year, :month, :nfse_status, :attempts, :submission_id,
			:official_number, :verification_code, :error_reason, :cancelled_at,
			:status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating nfse invoice",
		"nfse_id", n.ID,
		"enrollment_id", n.EnrollmentID,
		"year", n.Year,
		"month", n.Month,
	)

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create nfse invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *nfseRepository) Get(ctx context.Context, id string) (*nfse.NfseInvoice, error) {
	var n nfse.NfseInvoice
	err := r.db.GetContext(ctx, &n, `SELECT * FROM nfse_invoices WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("nfse invoice not found").
				WithHintf("Nfse invoice %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get nfse invoice").
			Mark(ierr.ErrDatabase)
	}
	return &n, nil
}

func (r *nfseRepository) Update(ctx context.Context, n *nfse.NfseInvoice) error {
	query := `
		UPDATE nfse_invoices SET
			nfse_status = :nfse_status,
			attempts = :attempts,
			submission_id = :submission_id,
			official_number = :official_number,
			verification_code = :verification_code,
			error_reason = :error_reason,
			cancelled_at = :cancelled_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	r.logger.Debugw("updating nfse invoice",
		"nfse_id", n.ID,
		"nfse_status", n.NfseStatus,
		"attempts", n.Attempts,
	)

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update nfse invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *nfseRepository) ListByStatus(ctx context.Context, status types.NfseStatus) ([]*nfse.NfseInvoice, error) {
	var invoices []*nfse.NfseInvoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT * FROM nfse_invoices
		 WHERE nfse_status = $1 AND cancelled_at IS NULL
		 ORDER BY year, month, created_at`,
		status)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list nfse invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *nfseRepository) HasAuthorized(ctx context.Context, enrollmentID string, year, month int) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM nfse_invoices
		 WHERE enrollment_id = $1 AND year = $2 AND month = $3
		   AND nfse_status = $4 AND cancelled_at IS NULL`,
		enrollmentID, year, month, types.NfseStatusAutorizado)
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check for authorized nfse invoice").
			Mark(ierr.ErrDatabase)
	}
	return count > 0, nil
}

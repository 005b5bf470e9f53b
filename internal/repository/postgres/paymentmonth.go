package postgres

import (
	"context"
	"database/sql"

	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/postgres"
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

type paymentMonthRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPaymentMonthRepository(db *postgres.DB, logger *logger.Logger) paymentmonth.Repository {
	return &paymentMonthRepository{db: db, logger: logger}
}

func (r *paymentMonthRepository) Create(ctx context.Context, pm *paymentmonth.PaymentMonth) error {
	query := `
		INSERT INTO payment_months (
			id, enrollment_id, year, month, due_day, payment_status, invoice_id,
			notified_at, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :enrollment_id, :year, :month, :due_day, :payment_status, :invoice_id,
			:notified_at, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating payment month",
		"payment_month_id", pm.ID,
		"enrollment_id", pm.EnrollmentID,
		"year", pm.Year,
		"month", pm.Month,
	)

	if _, err := r.db.NamedExecContext(ctx, query, pm); err != nil {
		var pqErr *pq.Error
		// unique_violation on (enrollment_id, year, month)
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("A payment month already exists for this enrollment and cycle").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create payment month").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentMonthRepository) Get(ctx context.Context, id string) (*paymentmonth.PaymentMonth, error) {
	var pm paymentmonth.PaymentMonth
	err := r.db.GetContext(ctx, &pm, `SELECT * FROM payment_months WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment month not found").
				WithHintf("Payment month %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment month").
			Mark(ierr.ErrDatabase)
	}
	return &pm, nil
}

func (r *paymentMonthRepository) Update(ctx context.Context, pm *paymentmonth.PaymentMonth) error {
	query := `
		UPDATE payment_months SET
			payment_status = :payment_status,
			invoice_id = :invoice_id,
			notified_at = :notified_at,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	r.logger.Debugw("updating payment month",
		"payment_month_id", pm.ID,
		"payment_status", pm.PaymentStatus,
	)

	if _, err := r.db.NamedExecContext(ctx, query, pm); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update payment month").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentMonthRepository) GetByEnrollmentMonth(ctx context.Context, enrollmentID string, year, month int) (*paymentmonth.PaymentMonth, error) {
	var pm paymentmonth.PaymentMonth
	err := r.db.GetContext(ctx, &pm,
		`SELECT * FROM payment_months WHERE enrollment_id = $1 AND year = $2 AND month = $3`,
		enrollmentID, year, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment month not found").
				WithHintf("No payment month for enrollment %s in %d-%02d", enrollmentID, year, month).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment month").
			Mark(ierr.ErrDatabase)
	}
	return &pm, nil
}

func (r *paymentMonthRepository) ListByStatus(ctx context.Context, status types.PaymentMonthStatus) ([]*paymentmonth.PaymentMonth, error) {
	var months []*paymentmonth.PaymentMonth
	err := r.db.SelectContext(ctx, &months,
		`SELECT * FROM payment_months WHERE payment_status = $1 ORDER BY year, month, created_at`,
		status)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment months").
			Mark(ierr.ErrDatabase)
	}
	return months, nil
}

func (r *paymentMonthRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*paymentmonth.PaymentMonth, error) {
	var pm paymentmonth.PaymentMonth
	err := r.db.GetContext(ctx, &pm, `SELECT * FROM payment_months WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment month not found").
				WithHintf("No payment month linked to invoice %s", invoiceID).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment month").
			Mark(ierr.ErrDatabase)
	}
	return &pm, nil
}

func (r *paymentMonthRepository) ListForCycle(ctx context.Context, year, month int) ([]*paymentmonth.PaymentMonth, error) {
	var months []*paymentmonth.PaymentMonth
	err := r.db.SelectContext(ctx, &months,
		`SELECT * FROM payment_months WHERE year = $1 AND month = $2 ORDER BY created_at`,
		year, month)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payment months for cycle").
			Mark(ierr.ErrDatabase)
	}
	return months, nil
}

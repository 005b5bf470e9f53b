package postgres

import (
	"context"
	"database/sql"

	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/postgres"
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/cockroachdb/errors"
)

type enrollmentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewEnrollmentRepository(db *postgres.DB, logger *logger.Logger) enrollment.Repository {
	return &enrollmentRepository{db: db, logger: logger}
}

func (r *enrollmentRepository) Create(ctx context.Context, e *enrollment.Enrollment) error {
	query := `
		INSERT INTO enrollments (
			id, student_name, student_email, amount_override, default_amount,
			due_day, enrollment_status, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :student_name, :student_email, :amount_override, :default_amount,
			:due_day, :enrollment_status, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating enrollment", "enrollment_id", e.ID)

	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create enrollment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *enrollmentRepository) Get(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	err := r.db.GetContext(ctx, &e,
		`SELECT * FROM enrollments WHERE id = $1 AND status != $2`, id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("enrollment not found").
				WithHintf("Enrollment %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get enrollment").
			Mark(ierr.ErrDatabase)
	}
	return &e, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	query := `
		UPDATE enrollments SET
			student_name = :student_name,
			student_email = :student_email,
			amount_override = :amount_override,
			default_amount = :default_amount,
			due_day = :due_day,
			enrollment_status = :enrollment_status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`

	r.logger.Debugw("updating enrollment", "enrollment_id", e.ID)

	if _, err := r.db.NamedExecContext(ctx, query, e); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update enrollment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *enrollmentRepository) ListActive(ctx context.Context) ([]*enrollment.Enrollment, error) {
	var enrollments []*enrollment.Enrollment
	err := r.db.SelectContext(ctx, &enrollments,
		`SELECT * FROM enrollments
		 WHERE enrollment_status = $1 AND status != $2
		 ORDER BY created_at`,
		types.EnrollmentStatusActive, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list active enrollments").
			Mark(ierr.ErrDatabase)
	}
	return enrollments, nil
}

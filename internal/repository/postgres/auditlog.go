package postgres

import (
	"context"

	"github.com/aulalivre/aulalivre/internal/domain/auditlog"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/postgres"
)

type auditLogRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAuditLogRepository(db *postgres.DB, logger *logger.Logger) auditlog.Repository {
	return &auditLogRepository{db: db, logger: logger}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *auditlog.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			id, actor, action, entity_type, entity_id, details, created_at
		) VALUES (
			:id, :actor, :action, :entity_type, :entity_id, :details, :created_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create audit log entry").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *auditLogRepository) ListByAction(ctx context.Context, action string, limit int) ([]*auditlog.AuditLog, error) {
	var entries []*auditlog.AuditLog
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM audit_logs WHERE action = $1 ORDER BY created_at DESC LIMIT $2`,
		action, limit)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list audit log entries").
			Mark(ierr.ErrDatabase)
	}
	return entries, nil
}

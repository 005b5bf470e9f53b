package auditlog

import (
	"context"
)

// Repository defines the interface for audit log persistence.
// Rows are append-only; there is no update or delete.
type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	ListByAction(ctx context.Context, action string, limit int) ([]*AuditLog, error)
}

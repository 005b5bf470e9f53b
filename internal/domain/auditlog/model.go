package auditlog

import (
	"time"

	"github.com/aulalivre/aulalivre/internal/types"
)

// AuditLog is an append-only record of job runs and manual triggers
type AuditLog struct {
	ID string `db:"id" json:"id"`
	// Actor is a user id for manual triggers, "system" for scheduled runs
	Actor      string         `db:"actor" json:"actor"`
	Action     string         `db:"action" json:"action"`
	EntityType string         `db:"entity_type" json:"entity_type"`
	EntityID   string         `db:"entity_id" json:"entity_id"`
	Details    types.Metadata `db:"details" json:"details,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

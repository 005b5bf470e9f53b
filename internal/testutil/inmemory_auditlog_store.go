package testutil

import (
	"context"
	"sync"

	"github.com/aulalivre/aulalivre/internal/domain/auditlog"
)

// InMemoryAuditLogStore is an in-memory implementation of the audit log repository
type InMemoryAuditLogStore struct {
	mu      sync.RWMutex
	entries []*auditlog.AuditLog
}

func NewInMemoryAuditLogStore() *InMemoryAuditLogStore {
	return &InMemoryAuditLogStore{
		entries: make([]*auditlog.AuditLog, 0),
	}
}

func (s *InMemoryAuditLogStore) Create(ctx context.Context, entry *auditlog.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryAuditLogStore) ListByAction(ctx context.Context, action string, limit int) ([]*auditlog.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*auditlog.AuditLog, 0)
	// newest first, matching the database ordering
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Action == action {
			entries = append(entries, s.entries[i])
			if limit > 0 && len(entries) >= limit {
				break
			}
		}
	}
	return entries, nil
}

// Count returns the number of stored entries
func (s *InMemoryAuditLogStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *InMemoryAuditLogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]*auditlog.AuditLog, 0)
}

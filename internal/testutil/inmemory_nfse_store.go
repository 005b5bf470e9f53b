package testutil

import (
	"context"
	"sync"

	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/types"
)

// InMemoryNfseStore is an in-memory implementation of the NFSe repository
type InMemoryNfseStore struct {
	mu      sync.RWMutex
	records map[string]*nfse.NfseInvoice
}

func NewInMemoryNfseStore() *InMemoryNfseStore {
	return &InMemoryNfseStore{
		records: make(map[string]*nfse.NfseInvoice),
	}
}

func (s *InMemoryNfseStore) Create(ctx context.Context, n *nfse.NfseInvoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[n.ID]; exists {
		return ierr.NewError("nfse invoice already exists").Mark(ierr.ErrAlreadyExists)
	}
	s.records[n.ID] = n
	return nil
}

func (s *InMemoryNfseStore) Get(ctx context.Context, id string) (*nfse.NfseInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, exists := s.records[id]
	if !exists {
		return nil, ierr.NewError("nfse invoice not found").Mark(ierr.ErrNotFound)
	}
	return n, nil
}

func (s *InMemoryNfseStore) Update(ctx context.Context, n *nfse.NfseInvoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[n.ID]; !exists {
		return ierr.NewError("nfse invoice not found").Mark(ierr.ErrNotFound)
	}
	s.records[n.ID] = n
	return nil
}

func (s *InMemoryNfseStore) ListByStatus(ctx context.Context, status types.NfseStatus) ([]*nfse.NfseInvoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*nfse.NfseInvoice, 0)
	for _, n := range s.records {
		if n.NfseStatus == status && !n.IsCancelled() {
			records = append(records, n)
		}
	}
	return records, nil
}

func (s *InMemoryNfseStore) HasAuthorized(ctx context.Context, enrollmentID string, year, month int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.records {
		if n.EnrollmentID == enrollmentID && n.Year == year && n.Month == month &&
			n.NfseStatus == types.NfseStatusAutorizado && !n.IsCancelled() {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryNfseStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*nfse.NfseInvoice)
}

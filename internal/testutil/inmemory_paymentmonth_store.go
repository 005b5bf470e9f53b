package testutil

import (
	"context"
	"sync"

	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/types"
)

// InMemoryPaymentMonthStore is an in-memory implementation of the payment
// month repository. It enforces the same uniqueness on (enrollment, year,
// month) the database does.
type InMemoryPaymentMonthStore struct {
	mu     sync.RWMutex
	months map[string]*paymentmonth.PaymentMonth
}

func NewInMemoryPaymentMonthStore() *InMemoryPaymentMonthStore {
	return &InMemoryPaymentMonthStore{
		months: make(map[string]*paymentmonth.PaymentMonth),
	}
}

func (s *InMemoryPaymentMonthStore) Create(ctx context.Context, pm *paymentmonth.PaymentMonth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.months[pm.ID]; exists {
		return ierr.NewError("payment month already exists").Mark(ierr.ErrAlreadyExists)
	}
	for _, existing := range s.months {
		if existing.EnrollmentID == pm.EnrollmentID && existing.Year == pm.Year && existing.Month == pm.Month {
			return ierr.NewError("payment month already exists").
				WithHint("A payment month already exists for this enrollment and cycle").
				Mark(ierr.ErrAlreadyExists)
		}
	}
	s.months[pm.ID] = pm
	return nil
}

func (s *InMemoryPaymentMonthStore) Get(ctx context.Context, id string) (*paymentmonth.PaymentMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pm, exists := s.months[id]
	if !exists {
		return nil, ierr.NewError("payment month not found").Mark(ierr.ErrNotFound)
	}
	return pm, nil
}

func (s *InMemoryPaymentMonthStore) Update(ctx context.Context, pm *paymentmonth.PaymentMonth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.months[pm.ID]; !exists {
		return ierr.NewError("payment month not found").Mark(ierr.ErrNotFound)
	}
	s.months[pm.ID] = pm
	return nil
}

func (s *InMemoryPaymentMonthStore) GetByEnrollmentMonth(ctx context.Context, enrollmentID string, year, month int) (*paymentmonth.PaymentMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pm := range s.months {
		if pm.EnrollmentID == enrollmentID && pm.Year == year && pm.Month == month {
			return pm, nil
		}
	}
	return nil, ierr.NewError("payment month not found").Mark(ierr.ErrNotFound)
}

func (s *InMemoryPaymentMonthStore) ListByStatus(ctx context.Context, status types.PaymentMonthStatus) ([]*paymentmonth.PaymentMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	months := make([]*paymentmonth.PaymentMonth, 0)
	for _, pm := range s.months {
		if pm.PaymentStatus == status {
			months = append(months, pm)
		}
	}
	return months, nil
}

func (s *InMemoryPaymentMonthStore) ListForCycle(ctx context.Context, year, month int) ([]*paymentmonth.PaymentMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	months := make([]*paymentmonth.PaymentMonth, 0)
	for _, pm := range s.months {
		if pm.Year == year && pm.Month == month {
			months = append(months, pm)
		}
	}
	return months, nil
}

func (s *InMemoryPaymentMonthStore) GetByInvoiceID(ctx context.Context, invoiceID string) (*paymentmonth.PaymentMonth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pm := range s.months {
		if pm.InvoiceID != nil && *pm.InvoiceID == invoiceID {
			return pm, nil
		}
	}
	return nil, ierr.NewError("payment month not found").Mark(ierr.ErrNotFound)
}

func (s *InMemoryPaymentMonthStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months = make(map[string]*paymentmonth.PaymentMonth)
}

package testutil

import (
	"context"
	"sync"

	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
)

// InMemoryEnrollmentStore is an in-memory implementation of the enrollment repository
type InMemoryEnrollmentStore struct {
	mu          sync.RWMutex
	enrollments map[string]*enrollment.Enrollment
}

func NewInMemoryEnrollmentStore() *InMemoryEnrollmentStore {
	return &InMemoryEnrollmentStore{
		enrollments: make(map[string]*enrollment.Enrollment),
	}
}

func (s *InMemoryEnrollmentStore) Create(ctx context.Context, e *enrollment.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.enrollments[e.ID]; exists {
		return ierr.NewError("enrollment already exists").Mark(ierr.ErrAlreadyExists)
	}
	s.enrollments[e.ID] = e
	return nil
}

func (s *InMemoryEnrollmentStore) Get(ctx context.Context, id string) (*enrollment.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.enrollments[id]
	if !exists {
		return nil, ierr.NewError("enrollment not found").Mark(ierr.ErrNotFound)
	}
	return e, nil
}

func (s *InMemoryEnrollmentStore) Update(ctx context.Context, e *enrollment.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.enrollments[e.ID]; !exists {
		return ierr.NewError("enrollment not found").Mark(ierr.ErrNotFound)
	}
	s.enrollments[e.ID] = e
	return nil
}

func (s *InMemoryEnrollmentStore) ListActive(ctx context.Context) ([]*enrollment.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]*enrollment.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		if e.IsActive() {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *InMemoryEnrollmentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments = make(map[string]*enrollment.Enrollment)
}

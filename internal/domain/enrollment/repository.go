package enrollment

import (
	"context"
)

// Repository defines the interface for enrollment persistence
type Repository interface {
	Create(ctx context.Context, enrollment *Enrollment) error
	Get(ctx context.Context, id string) (*Enrollment, error)
	Update(ctx context.Context, enrollment *Enrollment) error
	// ListActive returns all enrollments currently participating in billing
	ListActive(ctx context.Context) ([]*Enrollment, error)
}

package invoice

import (
	"context"
)

// Repository defines the interface for invoice persistence
type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	// GetByCoraID resolves the local row for a gateway invoice id, used by
	// the payment confirmation flow
	GetByCoraID(ctx context.Context, coraInvoiceID string) (*Invoice, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]*Invoice, error)
}

package nfse

import (
	"context"

	"github.com/aulalivre/aulalivre/internal/types"
)

// Repository defines the interface for NFSe invoice persistence
type Repository interface {
	Create(ctx context.Context, n *NfseInvoice) error
	Get(ctx context.Context, id string) (*NfseInvoice, error)
	Update(ctx context.Context, n *NfseInvoice) error
	// ListByStatus returns all non-cancelled rows in the given status
	ListByStatus(ctx context.Context, status types.NfseStatus) ([]*NfseInvoice, error)
	// HasAuthorized reports whether a non-cancelled autorizado row exists
	// for (enrollment, year, month). The retry job consults this before
	// every resubmission to avoid duplicate tax invoices.
	HasAuthorized(ctx context.Context, enrollmentID string, year, month int) (bool, error)
}

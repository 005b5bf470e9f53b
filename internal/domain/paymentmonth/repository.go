package paymentmonth

import (
	"context"

	"github.com/aulalivre/aulalivre/internal/types"
)

// Repository defines the interface for payment month persistence
type Repository interface {
	Create(ctx context.Context, pm *PaymentMonth) error
	Get(ctx context.Context, id string) (*PaymentMonth, error)
	Update(ctx context.Context, pm *PaymentMonth) error
	// GetByEnrollmentMonth returns the single row for (enrollment, year, month)
	GetByEnrollmentMonth(ctx context.Context, enrollmentID string, year, month int) (*PaymentMonth, error)
	// ListByStatus returns all rows currently in the given status
	ListByStatus(ctx context.Context, status types.PaymentMonthStatus) ([]*PaymentMonth, error)
	// ListForCycle returns all rows for a given (year, month) billing cycle
	ListForCycle(ctx context.Context, year, month int) ([]*PaymentMonth, error)
	// GetByInvoiceID returns the row linked to the given invoice
	GetByInvoiceID(ctx context.Context, invoiceID string) (*PaymentMonth, error)
}

package invoice

import (
	"time"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice mirrors a boleto created at the billing gateway. The local row
// follows confirmed remote state only; status is never inferred here.
type Invoice struct {
	ID           string `db:"id" json:"id"`
	EnrollmentID string `db:"enrollment_id" json:"enrollment_id"`
	// CoraInvoiceID is the gateway's identifier for the boleto
	CoraInvoiceID string              `db:"cora_invoice_id" json:"cora_invoice_id"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	DueDate       time.Time           `db:"due_date" json:"due_date"`
	InvoiceStatus types.InvoiceStatus `db:"invoice_status" json:"invoice_status"`

	types.BaseModel
}

// Validate validates the invoice
func (i *Invoice) Validate() error {
	if i.EnrollmentID == "" {
		return ierr.NewError("invalid enrollment id").
			WithHint("Enrollment id is required").
			Mark(ierr.ErrValidation)
	}
	if i.CoraInvoiceID == "" {
		return ierr.NewError("invalid remote invoice id").
			WithHint("Gateway invoice id is required").
			Mark(ierr.ErrValidation)
	}
	if i.Amount.IsZero() || i.Amount.IsNegative() {
		return ierr.NewError("invalid amount").
			WithHint("Amount must be greater than 0").
			Mark(ierr.ErrValidation)
	}
	return i.InvoiceStatus.Validate()
}

// TransitionTo enforces the one hard rule of the boleto state machine:
// a PAID invoice is immutable.
func (i *Invoice) TransitionTo(status types.InvoiceStatus) error {
	if i.InvoiceStatus == types.InvoiceStatusPaid && status != types.InvoiceStatusPaid {
		return ierr.NewError("invoice already paid").
			WithHint("Paid invoices cannot change status").
			Mark(ierr.ErrInvalidOperation)
	}
	i.InvoiceStatus = status
	return nil
}

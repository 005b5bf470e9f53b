package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/types"
)

func validInvoice() *Invoice {
	return &Invoice{
		ID:            "inv_test",
		EnrollmentID:  "enr_test",
		CoraInvoiceID: "cora-1",
		Amount:        decimal.NewFromInt(300),
		DueDate:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		InvoiceStatus: types.InvoiceStatusOpen,
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validInvoice().Validate())

	missing := validInvoice()
	missing.EnrollmentID = ""
	assert.True(t, ierr.IsValidation(missing.Validate()))

	noRemote := validInvoice()
	noRemote.CoraInvoiceID = ""
	assert.True(t, ierr.IsValidation(noRemote.Validate()))

	zero := validInvoice()
	zero.Amount = decimal.Zero
	assert.True(t, ierr.IsValidation(zero.Validate()))
}

func TestPaidInvoiceIsImmutable(t *testing.T) {
	inv := validInvoice()

	assert.NoError(t, inv.TransitionTo(types.InvoiceStatusPaid))

	err := inv.TransitionTo(types.InvoiceStatusCancelled)
	assert.Error(t, err)
	assert.True(t, ierr.IsInvalidOperation(err))
	assert.Equal(t, types.InvoiceStatusPaid, inv.InvoiceStatus)

	err = inv.TransitionTo(types.InvoiceStatusOpen)
	assert.Error(t, err)
}

func TestOpenInvoiceTransitions(t *testing.T) {
	inv := validInvoice()
	assert.NoError(t, inv.TransitionTo(types.InvoiceStatusCancelled))
	assert.Equal(t, types.InvoiceStatusCancelled, inv.InvoiceStatus)
}

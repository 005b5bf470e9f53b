package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PaymentMonthStatus represents the billing state of one enrollment month.
// Status names follow the school's bookkeeping vocabulary (pt-BR).
type PaymentMonthStatus string

const (
	PaymentMonthStatusEmAberto  PaymentMonthStatus = "EM_ABERTO"
	PaymentMonthStatusPago      PaymentMonthStatus = "PAGO"
	PaymentMonthStatusAtrasado  PaymentMonthStatus = "ATRASADO"
	PaymentMonthStatusCancelado PaymentMonthStatus = "CANCELADO"
)

func (s PaymentMonthStatus) String() string {
	return string(s)
}

func (s PaymentMonthStatus) Validate() error {
	allowed := []PaymentMonthStatus{
		PaymentMonthStatusEmAberto,
		PaymentMonthStatusPago,
		PaymentMonthStatusAtrasado,
		PaymentMonthStatusCancelado,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid payment month status: %s", s)
	}
	return nil
}

// IsTerminal reports whether the status admits no further transitions.
// PAGO and CANCELADO rows are never touched by the billing jobs.
func (s PaymentMonthStatus) IsTerminal() bool {
	return s == PaymentMonthStatusPago || s == PaymentMonthStatusCancelado
}

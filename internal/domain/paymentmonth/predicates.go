package paymentmonth

import (
	"time"

	"github.com/aulalivre/aulalivre/internal/types"
)

// The billing jobs rely on these predicates instead of locks: a row that no
// longer matches is naturally excluded from re-runs, which is what makes
// every job safe to fire arbitrarily often. Each predicate is exported and
// tested on its own.

// IsOverdue reports whether the obligation is open and its due date lies
// strictly before now. The due date itself is still payable: a dueDay=10
// row is not overdue at any point on the 10th.
func IsOverdue(pm *PaymentMonth, now time.Time) bool {
	if pm.PaymentStatus != types.PaymentMonthStatusEmAberto {
		return false
	}
	dayAfterDue := pm.DueDate().AddDate(0, 0, 1)
	return !now.Before(dayAfterDue)
}

// NeedsInvoice reports whether the obligation is open and no boleto has
// been generated for it yet.
func NeedsInvoice(pm *PaymentMonth) bool {
	return pm.PaymentStatus == types.PaymentMonthStatusEmAberto && pm.InvoiceID == nil
}

// NeedsNotification reports whether the obligation is open, falls due
// within the lookahead window from now, and has not been notified.
func NeedsNotification(pm *PaymentMonth, now time.Time, lookahead time.Duration) bool {
	if pm.PaymentStatus != types.PaymentMonthStatusEmAberto {
		return false
	}
	if pm.NotifiedAt != nil {
		return false
	}
	due := pm.DueDate()
	if due.Before(now) {
		return false
	}
	return !due.After(now.Add(lookahead))
}

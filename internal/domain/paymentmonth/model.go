package paymentmonth

import (
	"time"

	"github.com/aulalivre/aulalivre/internal/types"
)

// PaymentMonth is one month's billing obligation for one enrollment.
// At most one row exists per (enrollment_id, year, month).
type PaymentMonth struct {
	ID           string `db:"id" json:"id"`
	EnrollmentID string `db:"enrollment_id" json:"enrollment_id"`
	Year         int    `db:"year" json:"year"`
	Month        int    `db:"month" json:"month"`
	// DueDay is copied from the enrollment at cycle creation so later
	// enrollment edits do not shift already-issued obligations
	DueDay        int                      `db:"due_day" json:"due_day"`
	PaymentStatus types.PaymentMonthStatus `db:"payment_status" json:"payment_status"`
	// InvoiceID links the generated boleto once invoice generation ran
	InvoiceID *string `db:"invoice_id" json:"invoice_id,omitempty"`
	// NotifiedAt is stamped by the payment notification job so one due date
	// is never re-notified
	NotifiedAt *time.Time `db:"notified_at" json:"notified_at,omitempty"`

	types.BaseModel
}

// DueDate derives the concrete due date from DueDay within Year/Month,
// clamped to the last day of the month, at midnight UTC.
func (pm *PaymentMonth) DueDate() time.Time {
	day := pm.DueDay
	if last := lastDayOfMonth(pm.Year, pm.Month); day > last {
		day = last
	}
	return time.Date(pm.Year, time.Month(pm.Month), day, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

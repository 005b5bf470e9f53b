package enrollment

import (
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/shopspring/decimal"
)

// Enrollment is a student's contractual registration for lessons, the
// anchor entity for billing.
type Enrollment struct {
	ID string `db:"id" json:"id"`
	// StudentName and StudentEmail identify the person billed
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
	// AmountOverride takes precedence over the plan default when set
	AmountOverride *decimal.Decimal `db:"amount_override" json:"amount_override,omitempty"`
	// DefaultAmount comes from the enrollment's payment plan
	DefaultAmount *decimal.Decimal `db:"default_amount" json:"default_amount,omitempty"`
	// DueDay is the day of month payments fall due (1..28)
	DueDay           int                    `db:"due_day" json:"due_day"`
	EnrollmentStatus types.EnrollmentStatus `db:"enrollment_status" json:"enrollment_status"`

	types.BaseModel
}

// BillingAmount resolves the monthly amount for this enrollment: the
// override when present, the plan default otherwise. The second return is
// false when neither is set; such enrollments are skipped by invoice
// generation, not errored.
func (e *Enrollment) BillingAmount() (decimal.Decimal, bool) {
	if e.AmountOverride != nil && e.AmountOverride.IsPositive() {
		return *e.AmountOverride, true
	}
	if e.DefaultAmount != nil && e.DefaultAmount.IsPositive() {
		return *e.DefaultAmount, true
	}
	return decimal.Zero, false
}

// IsActive reports whether the enrollment participates in billing cycles
func (e *Enrollment) IsActive() bool {
	return e.EnrollmentStatus == types.EnrollmentStatusActive
}

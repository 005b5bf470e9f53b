package nfse

import (
	"time"

	"github.com/aulalivre/aulalivre/internal/types"
)

// NfseInvoice tracks one municipal tax invoice through submission, pending
// and authorized/error states. For a given (enrollment, year, month) at
// most one non-cancelled autorizado row may exist; the retry job checks
// this before every resubmission.
type NfseInvoice struct {
	ID           string           `db:"id" json:"id"`
	EnrollmentID string           `db:"enrollment_id" json:"enrollment_id"`
	Year         int              `db:"year" json:"year"`
	Month        int              `db:"month" json:"month"`
	NfseStatus   types.NfseStatus `db:"nfse_status" json:"nfse_status"`
	// Attempts counts submissions to the municipal provider
	Attempts int `db:"attempts" json:"attempts"`
	// SubmissionID is the provider's handle for polling an in-flight submission
	SubmissionID *string `db:"submission_id" json:"submission_id,omitempty"`
	// OfficialNumber and VerificationCode are assigned on authorization
	OfficialNumber   *string `db:"official_number" json:"official_number,omitempty"`
	VerificationCode *string `db:"verification_code" json:"verification_code,omitempty"`
	// ErrorReason holds the provider's rejection message
	ErrorReason *string    `db:"error_reason" json:"error_reason,omitempty"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`

	types.BaseModel
}

// IsCancelled reports whether the record was administratively cancelled
func (n *NfseInvoice) IsCancelled() bool {
	return n.CancelledAt != nil
}

// CanRetry reports whether a failed submission is still below the retry
// ceiling. The duplicate-authorization check is separate and mandatory.
func CanRetry(n *NfseInvoice, maxAttempts int) bool {
	return n.NfseStatus == types.NfseStatusErro &&
		!n.IsCancelled() &&
		n.Attempts < maxAttempts
}

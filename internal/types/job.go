package types

import (
	"fmt"

	"github.com/samber/lo"
)

// JobName identifies one idempotent unit of batch work. The same names are
// used for cron registration, manual trigger routes and audit log entries.
type JobName string

const (
	JobGenerateInvoices     JobName = "generate_invoices"
	JobMarkOverdue          JobName = "mark_overdue"
	JobNfseRetry            JobName = "nfse_retry"
	JobNfseStatus           JobName = "nfse_status"
	JobPaymentNotifications JobName = "payment_notifications"
)

func (j JobName) String() string {
	return string(j)
}

func (j JobName) Validate() error {
	allowed := []JobName{
		JobGenerateInvoices,
		JobMarkOverdue,
		JobNfseRetry,
		JobNfseStatus,
		JobPaymentNotifications,
	}
	if !lo.Contains(allowed, j) {
		return fmt.Errorf("invalid job name: %s", j)
	}
	return nil
}

// JobError records one candidate record that failed during a job run
type JobError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// JobRunResult is the ephemeral summary returned by every job run.
// It is never persisted; callers (scheduler log or HTTP response) consume it.
type JobRunResult struct {
	Ok        bool       `json:"ok"`
	Processed int        `json:"processed"`
	Skipped   int        `json:"skipped"`
	Errors    []JobError `json:"errors"`
}

// NewJobRunResult returns an empty successful result
func NewJobRunResult() *JobRunResult {
	return &JobRunResult{
		Ok:     true,
		Errors: make([]JobError, 0),
	}
}

// RecordProcessed counts one unit of work completed
func (r *JobRunResult) RecordProcessed() {
	r.Processed++
}

// RecordSkipped counts one candidate that was intentionally left alone
func (r *JobRunResult) RecordSkipped() {
	r.Skipped++
}

// RecordError isolates one failed candidate without failing the run.
// Partial success keeps Ok true; only a whole-job failure clears it.
func (r *JobRunResult) RecordError(id string, err error) {
	r.Errors = append(r.Errors, JobError{ID: id, Reason: err.Error()})
}

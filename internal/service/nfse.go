package service

import (
	"context"

	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	gwnfse "github.com/aulalivre/aulalivre/internal/gateway/nfse"
	"github.com/aulalivre/aulalivre/internal/types"
)

// NfseService drives municipal tax invoices through their lifecycle:
// emission, retry of failed submissions and polling of pending ones.
type NfseService interface {
	// Emit creates and submits a tax invoice for an enrollment's billing cycle
	Emit(ctx context.Context, enrollmentID string, year, month int) (*nfse.NfseInvoice, error)
	// RetryFailed resubmits failed tax invoices still below the retry ceiling
	RetryFailed(ctx context.Context) (*types.JobRunResult, error)
	// PollPending resolves in-flight submissions against the provider
	PollPending(ctx context.Context) (*types.JobRunResult, error)
}

type nfseService struct {
	ServiceParams
}

func NewNfseService(params ServiceParams) NfseService {
	return &nfseService{ServiceParams: params}
}

func (s *nfseService) Emit(ctx context.Context, enrollmentID string, year, month int) (*nfse.NfseInvoice, error) {
	if !s.NfseClient.Enabled() {
		return nil, ierr.NewError("tax invoice provider not configured").
			WithHint("NFSe emission is disabled").
			Mark(ierr.ErrConfiguration)
	}

	authorized, err := s.NfseRepo.HasAuthorized(ctx, enrollmentID, year, month)
	if err != nil {
		return nil, err
	}
	if authorized {
		return nil, ierr.NewError("tax invoice already authorized").
			WithHintf("An authorized NFSe already exists for enrollment %s in %04d-%02d", enrollmentID, year, month).
			Mark(ierr.ErrAlreadyExists)
	}

	e, err := s.EnrollmentRepo.Get(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	amount, ok := e.BillingAmount()
	if !ok {
		return nil, ierr.NewError("enrollment has no billing amount").
			WithHint("Set an amount override or a plan default before emitting").
			Mark(ierr.ErrInvalidOperation)
	}

	record := &nfse.NfseInvoice{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NFSE),
		EnrollmentID: enrollmentID,
		Year:         year,
		Month:        month,
		NfseStatus:   types.NfseStatusPending,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}

	submissionID, err := s.NfseClient.SubmitTaxInvoice(ctx, &gwnfse.Submission{
		EnrollmentID: enrollmentID,
		CustomerName: e.StudentName,
		Year:         year,
		Month:        month,
		Amount:       amount,
	})
	record.Attempts = 1
	if err != nil {
		reason := err.Error()
		record.NfseStatus = types.NfseStatusErro
		record.ErrorReason = &reason
		if createErr := s.NfseRepo.Create(ctx, record); createErr != nil {
			return nil, createErr
		}
		return nil, err
	}
	record.SubmissionID = &submissionID
	if err := s.NfseRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.Logger.Infow("submitted tax invoice",
		"nfse_id", record.ID,
		"enrollment_id", enrollmentID,
		"submission_id", submissionID,
	)

	return record, nil
}

func (s *nfseService) RetryFailed(ctx context.Context) (*types.JobRunResult, error) {
	if !s.NfseClient.Enabled() {
		return nil, ierr.NewError("tax invoice provider not configured").
			WithHint("NFSe retry is disabled").
			Mark(ierr.ErrConfiguration)
	}

	failed, err := s.NfseRepo.ListByStatus(ctx, types.NfseStatusErro)
	if err != nil {
		return nil, err
	}

	maxAttempts := s.Config.Cron.NfseMaxAttempts
	candidates := make([]*nfse.NfseInvoice, 0, len(failed))
	for _, n := range failed {
		if nfse.CanRetry(n, maxAttempts) {
			candidates = append(candidates, n)
		}
	}

	result := runBatch(ctx, s.Logger, types.JobNfseRetry, candidates,
		func(n *nfse.NfseInvoice) string { return n.ID },
		s.resubmit,
	)

	recordJobRun(ctx, s.Logger, s.AuditLogRepo, types.JobNfseRetry, result)
	return result, nil
}

func (s *nfseService) resubmit(ctx context.Context, n *nfse.NfseInvoice) (bool, error) {
	// another row may have been authorized since this one failed; a
	// resubmission then would duplicate the tax invoice
	authorized, err := s.NfseRepo.HasAuthorized(ctx, n.EnrollmentID, n.Year, n.Month)
	if err != nil {
		return false, err
	}
	if authorized {
		s.Logger.Infow("skipping resubmission, cycle already authorized",
			"nfse_id", n.ID,
			"enrollment_id", n.EnrollmentID,
		)
		return false, nil
	}

	e, err := s.EnrollmentRepo.Get(ctx, n.EnrollmentID)
	if err != nil {
		return false, err
	}
	amount, ok := e.BillingAmount()
	if !ok {
		s.Logger.Warnw("skipping resubmission, enrollment has no billing amount",
			"nfse_id", n.ID,
			"enrollment_id", n.EnrollmentID,
		)
		return false, nil
	}

	submissionID, err := s.NfseClient.SubmitTaxInvoice(ctx, &gwnfse.Submission{
		EnrollmentID: n.EnrollmentID,
		CustomerName: e.StudentName,
		Year:         n.Year,
		Month:        n.Month,
		Amount:       amount,
	})
	n.Attempts++
	n.Touch(ctx)
	if err != nil {
		reason := err.Error()
		n.ErrorReason = &reason
		// persist the attempt count and reason even on failure so the
		// ceiling holds across runs
		if updateErr := s.NfseRepo.Update(ctx, n); updateErr != nil {
			s.Logger.Errorw("failed to persist submission failure",
				"nfse_id", n.ID, "error", updateErr)
		}
		return false, err
	}

	n.NfseStatus = types.NfseStatusPending
	n.SubmissionID = &submissionID
	n.ErrorReason = nil
	if err := s.NfseRepo.Update(ctx, n); err != nil {
		return false, err
	}

	s.Logger.Infow("resubmitted tax invoice",
		"nfse_id", n.ID,
		"submission_id", submissionID,
		"attempts", n.Attempts,
	)

	return true, nil
}

func (s *nfseService) PollPending(ctx context.Context) (*types.JobRunResult, error) {
	if !s.NfseClient.Enabled() {
		return nil, ierr.NewError("tax invoice provider not configured").
			WithHint("NFSe status polling is disabled").
			Mark(ierr.ErrConfiguration)
	}

	pending, err := s.NfseRepo.ListByStatus(ctx, types.NfseStatusPending)
	if err != nil {
		return nil, err
	}

	result := runBatch(ctx, s.Logger, types.JobNfseStatus, pending,
		func(n *nfse.NfseInvoice) string { return n.ID },
		s.poll,
	)

	recordJobRun(ctx, s.Logger, s.AuditLogRepo, types.JobNfseStatus, result)
	return result, nil
}

func (s *nfseService) poll(ctx context.Context, n *nfse.NfseInvoice) (bool, error) {
	if n.SubmissionID == nil {
		// pending row without a provider handle; nothing to ask about
		s.Logger.Warnw("pending tax invoice has no submission id", "nfse_id", n.ID)
		return false, nil
	}

	status, err := s.NfseClient.PollTaxInvoiceStatus(ctx, *n.SubmissionID)
	if err != nil {
		return false, err
	}

	switch status.Status {
	case types.NfseStatusAutorizado:
		n.NfseStatus = types.NfseStatusAutorizado
		n.OfficialNumber = &status.OfficialNumber
		n.VerificationCode = &status.VerificationCode
		n.ErrorReason = nil
	case types.NfseStatusErro:
		n.NfseStatus = types.NfseStatusErro
		n.ErrorReason = &status.ErrorReason
	default:
		// still resolving on the provider side
		return false, nil
	}

	n.Touch(ctx)
	if err := s.NfseRepo.Update(ctx, n); err != nil {
		return false, err
	}

	s.Logger.Infow("resolved tax invoice submission",
		"nfse_id", n.ID,
		"nfse_status", n.NfseStatus,
	)

	return true, nil
}

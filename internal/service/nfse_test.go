package service

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	gwnfse "github.com/aulalivre/aulalivre/internal/gateway/nfse"
	"github.com/aulalivre/aulalivre/internal/testutil"
	"github.com/aulalivre/aulalivre/internal/types"
)

type NfseServiceSuite struct {
	testutil.BaseServiceTestSuite
	service NfseService
}

func TestNfseService(t *testing.T) {
	suite.Run(t, new(NfseServiceSuite))
}

func (s *NfseServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewNfseService(ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		EnrollmentRepo:   stores.EnrollmentRepo,
		PaymentMonthRepo: stores.PaymentMonthRepo,
		InvoiceRepo:      stores.InvoiceRepo,
		NfseRepo:         stores.NfseRepo,
		AuditLogRepo:     stores.AuditLogRepo,
		UserRepo:         stores.UserRepo,
		CoraClient:       s.GetCora(),
		NfseClient:       s.GetNfse(),
		EmailSender:      s.GetEmail(),
		AuthProvider:     s.GetAuthProvider(),
	})
}

func (s *NfseServiceSuite) createEnrollment() *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ENROLLMENT),
		StudentName:      "João Souza",
		StudentEmail:     "joao@example.com",
		DefaultAmount:    lo.ToPtr(decimal.NewFromInt(250)),
		DueDay:           10,
		EnrollmentStatus: types.EnrollmentStatusActive,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), e))
	return e
}

func (s *NfseServiceSuite) createNfse(enrollmentID string, status types.NfseStatus, attempts int) *nfse.NfseInvoice {
	n := &nfse.NfseInvoice{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_NFSE),
		EnrollmentID: enrollmentID,
		Year:         2025,
		Month:        7,
		NfseStatus:   status,
		Attempts:     attempts,
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	if status == types.NfseStatusPending {
		n.SubmissionID = lo.ToPtr("sub-" + n.ID)
	}
	if status == types.NfseStatusErro {
		n.ErrorReason = lo.ToPtr("rejected by provider")
	}
	s.NoError(s.GetStores().NfseRepo.Create(s.GetContext(), n))
	return n
}

func (s *NfseServiceSuite) TestEmitSubmitsAndStoresPending() {
	e := s.createEnrollment()

	record, err := s.service.Emit(s.GetContext(), e.ID, 2025, 7)
	s.NoError(err)
	s.Equal(types.NfseStatusPending, record.NfseStatus)
	s.Equal(1, record.Attempts)
	s.NotNil(record.SubmissionID)
	s.Len(s.GetNfse().SubmitCalls(), 1)
}

func (s *NfseServiceSuite) TestEmitRefusesDuplicateAuthorized() {
	e := s.createEnrollment()
	authorized := s.createNfse(e.ID, types.NfseStatusAutorizado, 1)
	s.NotEmpty(authorized.ID)

	_, err := s.service.Emit(s.GetContext(), e.ID, 2025, 7)
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
	s.Empty(s.GetNfse().SubmitCalls())
}

func (s *NfseServiceSuite) TestEmitRecordsFailure() {
	e := s.createEnrollment()
	s.GetNfse().SubmitFn = func(ctx context.Context, sub *gwnfse.Submission) (string, error) {
		return "", ierr.NewError("provider down").Mark(ierr.ErrGateway)
	}

	_, err := s.service.Emit(s.GetContext(), e.ID, 2025, 7)
	s.Error(err)

	failed, err := s.GetStores().NfseRepo.ListByStatus(s.GetContext(), types.NfseStatusErro)
	s.NoError(err)
	s.Len(failed, 1)
	s.Equal(1, failed[0].Attempts)
	s.NotNil(failed[0].ErrorReason)
}

func (s *NfseServiceSuite) TestRetryFailedResubmits() {
	e := s.createEnrollment()
	n := s.createNfse(e.ID, types.NfseStatusErro, 1)

	result, err := s.service.RetryFailed(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Processed)

	n, err = s.GetStores().NfseRepo.Get(s.GetContext(), n.ID)
	s.NoError(err)
	s.Equal(types.NfseStatusPending, n.NfseStatus)
	s.Equal(2, n.Attempts)
	s.NotNil(n.SubmissionID)
	s.Nil(n.ErrorReason)
}

func (s *NfseServiceSuite) TestRetryFailedSkipsWhenCycleAlreadyAuthorized() {
	e := s.createEnrollment()
	s.createNfse(e.ID, types.NfseStatusErro, 1)
	s.createNfse(e.ID, types.NfseStatusAutorizado, 1)

	result, err := s.service.RetryFailed(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Equal(1, result.Skipped)
	s.Empty(s.GetNfse().SubmitCalls(), "an authorized cycle must never be resubmitted")
}

func (s *NfseServiceSuite) TestRetryFailedHonorsAttemptCeiling() {
	e := s.createEnrollment()
	s.createNfse(e.ID, types.NfseStatusErro, s.GetConfig().Cron.NfseMaxAttempts)

	result, err := s.service.RetryFailed(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Empty(s.GetNfse().SubmitCalls())
}

func (s *NfseServiceSuite) TestRetryFailedPersistsAttemptOnFailure() {
	e := s.createEnrollment()
	n := s.createNfse(e.ID, types.NfseStatusErro, 1)

	s.GetNfse().SubmitFn = func(ctx context.Context, sub *gwnfse.Submission) (string, error) {
		return "", ierr.NewError("provider down").Mark(ierr.ErrGateway)
	}

	result, err := s.service.RetryFailed(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Len(result.Errors, 1)

	// the attempt still counts toward the ceiling
	n, err = s.GetStores().NfseRepo.Get(s.GetContext(), n.ID)
	s.NoError(err)
	s.Equal(types.NfseStatusErro, n.NfseStatus)
	s.Equal(2, n.Attempts)
}

func (s *NfseServiceSuite) TestPollPendingResolvesAuthorization() {
	e := s.createEnrollment()
	n := s.createNfse(e.ID, types.NfseStatusPending, 1)

	s.GetNfse().PollStatusFn = func(ctx context.Context, submissionID string) (*gwnfse.StatusResult, error) {
		return &gwnfse.StatusResult{
			Status:           types.NfseStatusAutorizado,
			OfficialNumber:   "2025-000123",
			VerificationCode: "ABCD1234",
		}, nil
	}

	result, err := s.service.PollPending(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Processed)

	n, err = s.GetStores().NfseRepo.Get(s.GetContext(), n.ID)
	s.NoError(err)
	s.Equal(types.NfseStatusAutorizado, n.NfseStatus)
	s.Equal("2025-000123", *n.OfficialNumber)
	s.Equal("ABCD1234", *n.VerificationCode)
}

func (s *NfseServiceSuite) TestPollPendingRecordsRejection() {
	e := s.createEnrollment()
	n := s.createNfse(e.ID, types.NfseStatusPending, 1)

	s.GetNfse().PollStatusFn = func(ctx context.Context, submissionID string) (*gwnfse.StatusResult, error) {
		return &gwnfse.StatusResult{
			Status:      types.NfseStatusErro,
			ErrorReason: "invalid service code",
		}, nil
	}

	result, err := s.service.PollPending(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Processed)

	n, err = s.GetStores().NfseRepo.Get(s.GetContext(), n.ID)
	s.NoError(err)
	s.Equal(types.NfseStatusErro, n.NfseStatus)
	s.Equal("invalid service code", *n.ErrorReason)
}

func (s *NfseServiceSuite) TestPollPendingLeavesUnresolvedAlone() {
	e := s.createEnrollment()
	n := s.createNfse(e.ID, types.NfseStatusPending, 1)

	// default fake answer is still-pending
	result, err := s.service.PollPending(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Equal(1, result.Skipped)

	n, err = s.GetStores().NfseRepo.Get(s.GetContext(), n.ID)
	s.NoError(err)
	s.Equal(types.NfseStatusPending, n.NfseStatus)
}

func (s *NfseServiceSuite) TestJobsFailWhenProviderDisabled() {
	s.GetNfse().Disabled = true

	_, err := s.service.RetryFailed(s.GetContext())
	s.Error(err)
	s.True(ierr.IsConfiguration(err))

	_, err = s.service.PollPending(s.GetContext())
	s.Error(err)
	s.True(ierr.IsConfiguration(err))
}

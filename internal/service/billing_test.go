package service

import (
	"context"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/gateway/cora"
	"github.com/aulalivre/aulalivre/internal/testutil"
	"github.com/aulalivre/aulalivre/internal/types"
)

type BillingServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BillingService
}

func TestBillingService(t *testing.T) {
	suite.Run(t, new(BillingServiceSuite))
}

func (s *BillingServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBillingService(s.newParams())
}

func (s *BillingServiceSuite) newParams() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
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
	}
}

func (s *BillingServiceSuite) createEnrollment(amount int64) *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ENROLLMENT),
		StudentName:      "Maria Silva",
		StudentEmail:     "maria@example.com",
		DefaultAmount:    lo.ToPtr(decimal.NewFromInt(amount)),
		DueDay:           10,
		EnrollmentStatus: types.EnrollmentStatusActive,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), e))
	return e
}

func (s *BillingServiceSuite) createPaymentMonth(enrollmentID string, year, month int, status types.PaymentMonthStatus) *paymentmonth.PaymentMonth {
	pm := &paymentmonth.PaymentMonth{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_MONTH),
		EnrollmentID:  enrollmentID,
		Year:          year,
		Month:         month,
		DueDay:        10,
		PaymentStatus: status,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentMonthRepo.Create(s.GetContext(), pm))
	return pm
}

func (s *BillingServiceSuite) TestGenerateInvoicesCreatesMissingCycleAndInvoice() {
	e := s.createEnrollment(300)

	result, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)
	s.True(result.Ok)
	s.Equal(1, result.Processed)
	s.Equal(0, result.Skipped)
	s.Empty(result.Errors)

	now := time.Now().UTC()
	pm, err := s.GetStores().PaymentMonthRepo.GetByEnrollmentMonth(s.GetContext(), e.ID, now.Year(), int(now.Month()))
	s.NoError(err)
	s.Equal(types.PaymentMonthStatusEmAberto, pm.PaymentStatus)
	s.NotNil(pm.InvoiceID)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), *pm.InvoiceID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusOpen, inv.InvoiceStatus)
	s.True(inv.Amount.Equal(decimal.NewFromInt(300)))
}

func (s *BillingServiceSuite) TestGenerateInvoicesIsIdempotent() {
	s.createEnrollment(300)

	first, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Processed)

	second, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Processed, "second run must not create more invoices")
	s.Len(s.GetCora().CreateCalls(), 1, "gateway must be called exactly once")
	s.Equal(1, s.GetStores().InvoiceRepo.(*testutil.InMemoryInvoiceStore).Count())
}

func (s *BillingServiceSuite) TestGenerateInvoicesSkipsEnrollmentWithoutAmount() {
	e := s.createEnrollment(300)
	e.DefaultAmount = nil
	s.NoError(s.GetStores().EnrollmentRepo.Update(s.GetContext(), e))

	result, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Equal(1, result.Skipped)
	s.Empty(s.GetCora().CreateCalls())
}

func (s *BillingServiceSuite) TestGenerateInvoicesIsolatesGatewayFailures() {
	s.createEnrollment(100)
	s.createEnrollment(200)
	s.createEnrollment(300)

	// fail only the second gateway call
	calls := 0
	s.GetCora().CreateInvoiceFn = func(ctx context.Context, req *cora.CreateInvoiceRequest) (string, error) {
		calls++
		if calls == 2 {
			return "", ierr.NewError("gateway down").Mark(ierr.ErrGateway)
		}
		return types.GenerateUUID(), nil
	}

	result, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)
	s.True(result.Ok, "partial failure is still a successful run")
	s.Equal(2, result.Processed)
	s.Len(result.Errors, 1)
}

func (s *BillingServiceSuite) TestGenerateInvoicesFailsWhenGatewayDisabled() {
	s.createEnrollment(300)
	s.GetCora().Disabled = true

	result, err := s.service.GenerateInvoices(s.GetContext())
	s.Error(err)
	s.Nil(result)
	s.True(ierr.IsConfiguration(err))
}

func (s *BillingServiceSuite) TestMarkOverdueFlipsPastDueMonths() {
	e := s.createEnrollment(300)
	s.createPaymentMonth(e.ID, 2020, 1, types.PaymentMonthStatusEmAberto)

	result, err := s.service.MarkOverdue(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Processed)

	months, err := s.GetStores().PaymentMonthRepo.ListByStatus(s.GetContext(), types.PaymentMonthStatusAtrasado)
	s.NoError(err)
	s.Len(months, 1)
}

func (s *BillingServiceSuite) TestMarkOverdueIsIdempotent() {
	e := s.createEnrollment(300)
	s.createPaymentMonth(e.ID, 2020, 1, types.PaymentMonthStatusEmAberto)

	first, err := s.service.MarkOverdue(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Processed)

	second, err := s.service.MarkOverdue(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Processed, "already flipped rows must not be selected again")
}

func (s *BillingServiceSuite) TestMarkOverdueNeverTouchesPaidMonths() {
	e := s.createEnrollment(300)
	s.createPaymentMonth(e.ID, 2020, 1, types.PaymentMonthStatusPago)

	result, err := s.service.MarkOverdue(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)

	paid, err := s.GetStores().PaymentMonthRepo.ListByStatus(s.GetContext(), types.PaymentMonthStatusPago)
	s.NoError(err)
	s.Len(paid, 1)
}

func (s *BillingServiceSuite) TestMarkOverdueIgnoresFutureDueDates() {
	e := s.createEnrollment(300)
	future := time.Now().UTC().AddDate(1, 0, 0)
	s.createPaymentMonth(e.ID, future.Year(), int(future.Month()), types.PaymentMonthStatusEmAberto)

	result, err := s.service.MarkOverdue(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
}

func (s *BillingServiceSuite) TestConfirmPaymentSettlesInvoiceAndMonth() {
	e := s.createEnrollment(300)

	_, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)

	now := time.Now().UTC()
	pm, err := s.GetStores().PaymentMonthRepo.GetByEnrollmentMonth(s.GetContext(), e.ID, now.Year(), int(now.Month()))
	s.NoError(err)
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), *pm.InvoiceID)
	s.NoError(err)

	s.NoError(s.service.ConfirmPayment(s.GetContext(), inv.CoraInvoiceID))

	inv, err = s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)

	pm, err = s.GetStores().PaymentMonthRepo.Get(s.GetContext(), pm.ID)
	s.NoError(err)
	s.Equal(types.PaymentMonthStatusPago, pm.PaymentStatus)

	// a duplicate confirmation is a no-op
	s.NoError(s.service.ConfirmPayment(s.GetContext(), inv.CoraInvoiceID))
}

func (s *BillingServiceSuite) TestConfirmPaymentUnknownInvoice() {
	err := s.service.ConfirmPayment(s.GetContext(), "cora-unknown")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *BillingServiceSuite) TestCancelCycleCancelsBoletoAndMonth() {
	e := s.createEnrollment(300)

	_, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)

	now := time.Now().UTC()
	pm, err := s.GetStores().PaymentMonthRepo.GetByEnrollmentMonth(s.GetContext(), e.ID, now.Year(), int(now.Month()))
	s.NoError(err)

	s.NoError(s.service.CancelCycle(s.GetContext(), pm.ID))

	pm, err = s.GetStores().PaymentMonthRepo.Get(s.GetContext(), pm.ID)
	s.NoError(err)
	s.Equal(types.PaymentMonthStatusCancelado, pm.PaymentStatus)

	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), *pm.InvoiceID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusCancelled, inv.InvoiceStatus)
	s.Equal([]string{inv.CoraInvoiceID}, s.GetCora().CancelCalls())
}

func (s *BillingServiceSuite) TestCancelCycleRefusesPaidMonth() {
	e := s.createEnrollment(300)

	_, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)

	now := time.Now().UTC()
	pm, err := s.GetStores().PaymentMonthRepo.GetByEnrollmentMonth(s.GetContext(), e.ID, now.Year(), int(now.Month()))
	s.NoError(err)
	inv, err := s.GetStores().InvoiceRepo.Get(s.GetContext(), *pm.InvoiceID)
	s.NoError(err)
	s.NoError(s.service.ConfirmPayment(s.GetContext(), inv.CoraInvoiceID))

	err = s.service.CancelCycle(s.GetContext(), pm.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))

	inv, err = s.GetStores().InvoiceRepo.Get(s.GetContext(), inv.ID)
	s.NoError(err)
	s.Equal(types.InvoiceStatusPaid, inv.InvoiceStatus)
}

func (s *BillingServiceSuite) TestCancelCycleWithoutInvoice() {
	e := s.createEnrollment(300)
	pm := s.createPaymentMonth(e.ID, 2026, 3, types.PaymentMonthStatusEmAberto)

	s.NoError(s.service.CancelCycle(s.GetContext(), pm.ID))

	pm, err := s.GetStores().PaymentMonthRepo.Get(s.GetContext(), pm.ID)
	s.NoError(err)
	s.Equal(types.PaymentMonthStatusCancelado, pm.PaymentStatus)
	s.Empty(s.GetCora().CancelCalls())
}

func (s *BillingServiceSuite) TestJobRunsAreAudited() {
	s.createEnrollment(300)

	_, err := s.service.GenerateInvoices(s.GetContext())
	s.NoError(err)

	entries, err := s.GetStores().AuditLogRepo.ListByAction(s.GetContext(), "job_run:generate_invoices", 10)
	s.NoError(err)
	s.Len(entries, 1)
	s.Equal("1", entries[0].Details["processed"])
}

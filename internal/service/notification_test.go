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
	"github.com/aulalivre/aulalivre/internal/email"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/testutil"
	"github.com/aulalivre/aulalivre/internal/types"
)

type NotificationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service NotificationService
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceSuite))
}

func (s *NotificationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	stores := s.GetStores()
	s.service = NewNotificationService(ServiceParams{
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

func (s *NotificationServiceSuite) createEnrollment(emailAddr string) *enrollment.Enrollment {
	e := &enrollment.Enrollment{
		ID:               types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ENROLLMENT),
		StudentName:      "Ana Lima",
		StudentEmail:     emailAddr,
		DefaultAmount:    lo.ToPtr(decimal.NewFromInt(280)),
		DueDay:           10,
		EnrollmentStatus: types.EnrollmentStatusActive,
		BaseModel:        types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().EnrollmentRepo.Create(s.GetContext(), e))
	return e
}

// dueWithinDays opens a payment month falling due the given number of days
// from now
func (s *NotificationServiceSuite) dueWithinDays(enrollmentID string, days int) *paymentmonth.PaymentMonth {
	due := time.Now().UTC().AddDate(0, 0, days)
	pm := &paymentmonth.PaymentMonth{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_MONTH),
		EnrollmentID:  enrollmentID,
		Year:          due.Year(),
		Month:         int(due.Month()),
		DueDay:        due.Day(),
		PaymentStatus: types.PaymentMonthStatusEmAberto,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().PaymentMonthRepo.Create(s.GetContext(), pm))
	return pm
}

func (s *NotificationServiceSuite) TestSendsReminderWithinLookahead() {
	e := s.createEnrollment("ana@example.com")
	pm := s.dueWithinDays(e.ID, 2)

	result, err := s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Processed)

	sent := s.GetEmail().Sent()
	s.Len(sent, 1)
	s.Equal("ana@example.com", sent[0].ToAddress)

	pm, err = s.GetStores().PaymentMonthRepo.Get(s.GetContext(), pm.ID)
	s.NoError(err)
	s.NotNil(pm.NotifiedAt)
}

func (s *NotificationServiceSuite) TestNeverRemindsTwice() {
	e := s.createEnrollment("ana@example.com")
	s.dueWithinDays(e.ID, 2)

	first, err := s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(1, first.Processed)

	second, err := s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(0, second.Processed)
	s.Len(s.GetEmail().Sent(), 1)
}

func (s *NotificationServiceSuite) TestIgnoresDueDatesBeyondLookahead() {
	e := s.createEnrollment("ana@example.com")
	s.dueWithinDays(e.ID, s.GetConfig().Cron.NotificationLookaheadDays+30)

	result, err := s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Empty(s.GetEmail().Sent())
}

func (s *NotificationServiceSuite) TestSkipsEnrollmentWithoutEmail() {
	e := s.createEnrollment("")
	s.dueWithinDays(e.ID, 2)

	result, err := s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Equal(1, result.Skipped)
}

func (s *NotificationServiceSuite) TestFailedSendIsRetriedNextRun() {
	e := s.createEnrollment("ana@example.com")
	pm := s.dueWithinDays(e.ID, 2)

	s.GetEmail().SendFn = func(ctx context.Context, rem *email.PaymentReminder) error {
		return ierr.NewError("smtp unavailable").Mark(ierr.ErrGateway)
	}

	result, err := s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(0, result.Processed)
	s.Len(result.Errors, 1)

	// NotifiedAt must stay empty so the next run picks it up again
	pm, err = s.GetStores().PaymentMonthRepo.Get(s.GetContext(), pm.ID)
	s.NoError(err)
	s.Nil(pm.NotifiedAt)

	s.GetEmail().SendFn = nil
	result, err = s.service.SendPaymentReminders(s.GetContext())
	s.NoError(err)
	s.Equal(1, result.Processed)
}

package service

import (
	"context"
	"time"

	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	"github.com/aulalivre/aulalivre/internal/email"
	"github.com/aulalivre/aulalivre/internal/types"
)

// NotificationService sends payment reminders for obligations coming due.
type NotificationService interface {
	// SendPaymentReminders emails students whose due date falls inside the
	// configured lookahead window and who have not been reminded yet
	SendPaymentReminders(ctx context.Context) (*types.JobRunResult, error)
}

type notificationService struct {
	ServiceParams
}

func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{ServiceParams: params}
}

func (s *notificationService) SendPaymentReminders(ctx context.Context) (*types.JobRunResult, error) {
	now := time.Now().UTC()
	lookahead := time.Duration(s.Config.Cron.NotificationLookaheadDays) * 24 * time.Hour

	open, err := s.PaymentMonthRepo.ListByStatus(ctx, types.PaymentMonthStatusEmAberto)
	if err != nil {
		return nil, err
	}

	candidates := make([]*paymentmonth.PaymentMonth, 0, len(open))
	for _, pm := range open {
		if paymentmonth.NeedsNotification(pm, now, lookahead) {
			candidates = append(candidates, pm)
		}
	}

	result := runBatch(ctx, s.Logger, types.JobPaymentNotifications, candidates,
		func(pm *paymentmonth.PaymentMonth) string { return pm.ID },
		func(ctx context.Context, pm *paymentmonth.PaymentMonth) (bool, error) {
			return s.remind(ctx, pm, now)
		},
	)

	recordJobRun(ctx, s.Logger, s.AuditLogRepo, types.JobPaymentNotifications, result)
	return result, nil
}

func (s *notificationService) remind(ctx context.Context, pm *paymentmonth.PaymentMonth, now time.Time) (bool, error) {
	e, err := s.EnrollmentRepo.Get(ctx, pm.EnrollmentID)
	if err != nil {
		return false, err
	}
	if e.StudentEmail == "" {
		s.Logger.Warnw("skipping reminder, enrollment has no email",
			"enrollment_id", e.ID,
			"payment_month_id", pm.ID,
		)
		return false, nil
	}

	amount, ok := e.BillingAmount()
	if !ok {
		s.Logger.Warnw("skipping reminder, enrollment has no billing amount",
			"enrollment_id", e.ID,
			"payment_month_id", pm.ID,
		)
		return false, nil
	}

	if err := s.EmailSender.SendPaymentReminder(ctx, &email.PaymentReminder{
		ToAddress:   e.StudentEmail,
		StudentName: e.StudentName,
		Amount:      amount,
		DueDate:     pm.DueDate(),
	}); err != nil {
		return false, err
	}

	// NotifiedAt stamps only after a successful send, so a failed send is
	// picked up again on the next run
	pm.NotifiedAt = &now
	pm.Touch(ctx)
	if err := s.PaymentMonthRepo.Update(ctx, pm); err != nil {
		return false, err
	}

	s.Logger.Infow("sent payment reminder",
		"enrollment_id", e.ID,
		"payment_month_id", pm.ID,
		"due_date", pm.DueDate().Format("2006-01-02"),
	)

	return true, nil
}

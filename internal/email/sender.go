package email

import (
	"context"
	"fmt"
	"time"

	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/resend/resend-go/v2"
	"github.com/shopspring/decimal"
)

// Sender delivers payment reminders. The notification job treats delivery
// as an opaque side effect; failures are per-record, never fatal.
type Sender interface {
	SendPaymentReminder(ctx context.Context, rem *PaymentReminder) error
}

// PaymentReminder is the content of one payment-due notification
type PaymentReminder struct {
	ToAddress   string
	StudentName string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// Config holds the email sender configuration
type Config struct {
	Enabled     bool
	APIKey      string
	FromAddress string
}

type resendSender struct {
	client *resend.Client
	cfg    Config
	logger *logger.Logger
}

// NewSender creates an email sender. When disabled or missing an API key a
// logging no-op sender is returned so the notification job still runs.
func NewSender(cfg Config, logger *logger.Logger) Sender {
	if !cfg.Enabled || cfg.APIKey == "" {
		logger.Warnw("email sending disabled, payment reminders will only be logged")
		return &noopSender{logger: logger}
	}
	return &resendSender{
		client: resend.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

func (s *resendSender) SendPaymentReminder(ctx context.Context, rem *PaymentReminder) error {
	subject := fmt.Sprintf("Lembrete: mensalidade vence em %s", rem.DueDate.Format("02/01/2006"))
	text := fmt.Sprintf(
		"Olá %s,\n\nSua mensalidade de R$ %s vence em %s.\n\nEquipe Aula Livre",
		rem.StudentName,
		rem.Amount.StringFixed(2),
		rem.DueDate.Format("02/01/2006"),
	)

	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.cfg.FromAddress,
		To:      []string{rem.ToAddress},
		Subject: subject,
		Text:    text,
	})
	if err != nil {
		return err
	}

	s.logger.Debugw("sent payment reminder", "to", rem.ToAddress, "due_date", rem.DueDate)
	return nil
}

type noopSender struct {
	logger *logger.Logger
}

func (s *noopSender) SendPaymentReminder(_ context.Context, rem *PaymentReminder) error {
	s.logger.Infow("payment reminder (email disabled)",
		"to", rem.ToAddress,
		"student", rem.StudentName,
		"amount", rem.Amount.StringFixed(2),
		"due_date", rem.DueDate.Format("2006-01-02"),
	)
	return nil
}

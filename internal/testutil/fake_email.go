package testutil

import (
	"context"
	"sync"

	"github.com/aulalivre/aulalivre/internal/email"
)

// FakeEmailSender records sent reminders, with an overridable func for
// failure injection.
type FakeEmailSender struct {
	mu sync.Mutex

	SendFn func(ctx context.Context, rem *email.PaymentReminder) error

	sent []*email.PaymentReminder
}

func NewFakeEmailSender() *FakeEmailSender {
	return &FakeEmailSender{}
}

func (f *FakeEmailSender) SendPaymentReminder(ctx context.Context, rem *email.PaymentReminder) error {
	f.mu.Lock()
	fn := f.SendFn
	f.mu.Unlock()

	if fn != nil {
		if err := fn(ctx, rem); err != nil {
			return err
		}
	}

	f.mu.Lock()
	f.sent = append(f.sent, rem)
	f.mu.Unlock()
	return nil
}

// Sent returns every reminder delivered so far
func (f *FakeEmailSender) Sent() []*email.PaymentReminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	sent := make([]*email.PaymentReminder, len(f.sent))
	copy(sent, f.sent)
	return sent
}

package service

import (
	"context"
	"time"

	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	"github.com/aulalivre/aulalivre/internal/domain/invoice"
	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/gateway/cora"
	"github.com/aulalivre/aulalivre/internal/types"
)

// BillingService runs the boleto side of the billing cycle: invoice
// generation, overdue marking and payment confirmation.
type BillingService interface {
	// GenerateInvoices creates boletos for active enrollments whose
	// current-month obligation has none yet
	GenerateInvoices(ctx context.Context) (*types.JobRunResult, error)
	// MarkOverdue flips open obligations past their due date to ATRASADO
	MarkOverdue(ctx context.Context) (*types.JobRunResult, error)
	// ConfirmPayment settles an invoice on confirmed gateway state
	ConfirmPayment(ctx context.Context, coraInvoiceID string) error
	// CancelCycle cancels an unsettled billing cycle and its open boleto
	CancelCycle(ctx context.Context, paymentMonthID string) error
}

type billingService struct {
	ServiceParams
}

func NewBillingService(params ServiceParams) BillingService {
	return &billingService{ServiceParams: params}
}

// invoiceCandidate pairs an open obligation with its enrollment
type invoiceCandidate struct {
	enrollment *enrollment.Enrollment
	pm         *paymentmonth.PaymentMonth
}

func (s *billingService) GenerateInvoices(ctx context.Context) (*types.JobRunResult, error) {
	if !s.CoraClient.Enabled() {
		return nil, ierr.NewError("billing gateway not configured").
			WithHint("Invoice generation is disabled").
			Mark(ierr.ErrConfiguration)
	}

	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	enrollments, err := s.EnrollmentRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]invoiceCandidate, 0, len(enrollments))
	for _, e := range enrollments {
		pm, err := s.ensurePaymentMonth(ctx, e, year, month)
		if err != nil {
			return nil, err
		}
		if paymentmonth.NeedsInvoice(pm) {
			candidates = append(candidates, invoiceCandidate{enrollment: e, pm: pm})
		}
	}

	result := runBatch(ctx, s.Logger, types.JobGenerateInvoices, candidates,
		func(c invoiceCandidate) string { return c.enrollment.ID },
		s.generateInvoice,
	)

	recordJobRun(ctx, s.Logger, s.AuditLogRepo, types.JobGenerateInvoices, result)
	return result, nil
}

// ensurePaymentMonth opens the billing cycle row for an enrollment if the
// current month has none yet
func (s *billingService) ensurePaymentMonth(ctx context.Context, e *enrollment.Enrollment, year, month int) (*paymentmonth.PaymentMonth, error) {
	pm, err := s.PaymentMonthRepo.GetByEnrollmentMonth(ctx, e.ID, year, month)
	if err == nil {
		return pm, nil
	}
	if !ierr.IsNotFound(err) {
		return nil, err
	}

	pm = &paymentmonth.PaymentMonth{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT_MONTH),
		EnrollmentID:  e.ID,
		Year:          year,
		Month:         month,
		DueDay:        e.DueDay,
		PaymentStatus: types.PaymentMonthStatusEmAberto,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}

	if err := s.PaymentMonthRepo.Create(ctx, pm); err != nil {
		// a concurrent run created it first; re-read and continue
		if ierr.IsAlreadyExists(err) {
			return s.PaymentMonthRepo.GetByEnrollmentMonth(ctx, e.ID, year, month)
		}
		return nil, err
	}

	s.Logger.Infow("opened billing cycle",
		"enrollment_id", e.ID,
		"year", year,
		"month", month,
	)

	return pm, nil
}

func (s *billingService) generateInvoice(ctx context.Context, c invoiceCandidate) (bool, error) {
	amount, ok := c.enrollment.BillingAmount()
	if !ok {
		s.Logger.Infow("skipping enrollment with no determinable amount",
			"enrollment_id", c.enrollment.ID)
		return false, nil
	}

	coraID, err := s.CoraClient.CreateInvoice(ctx, &cora.CreateInvoiceRequest{
		EnrollmentID: c.enrollment.ID,
		CustomerName: c.enrollment.StudentName,
		Amount:       amount,
		DueDate:      c.pm.DueDate(),
	})
	if err != nil {
		return false, err
	}

	inv := &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		EnrollmentID:  c.enrollment.ID,
		CoraInvoiceID: coraID,
		Amount:        amount,
		DueDate:       c.pm.DueDate(),
		InvoiceStatus: types.InvoiceStatusOpen,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	if err := s.InvoiceRepo.Create(ctx, inv); err != nil {
		return false, err
	}

	c.pm.InvoiceID = &inv.ID
	c.pm.Touch(ctx)
	if err := s.PaymentMonthRepo.Update(ctx, c.pm); err != nil {
		return false, err
	}

	s.Logger.Infow("generated invoice",
		"enrollment_id", c.enrollment.ID,
		"invoice_id", inv.ID,
		"cora_invoice_id", coraID,
		"amount", amount.StringFixed(2),
	)

	return true, nil
}

func (s *billingService) MarkOverdue(ctx context.Context) (*types.JobRunResult, error) {
	now := time.Now().UTC()

	// the query already excludes PAGO, CANCELADO and ATRASADO rows, so a
	// second run right after the first finds nothing left to flip
	open, err := s.PaymentMonthRepo.ListByStatus(ctx, types.PaymentMonthStatusEmAberto)
	if err != nil {
		return nil, err
	}

	candidates := make([]*paymentmonth.PaymentMonth, 0, len(open))
	for _, pm := range open {
		if paymentmonth.IsOverdue(pm, now) {
			candidates = append(candidates, pm)
		}
	}

	result := runBatch(ctx, s.Logger, types.JobMarkOverdue, candidates,
		func(pm *paymentmonth.PaymentMonth) string { return pm.ID },
		func(ctx context.Context, pm *paymentmonth.PaymentMonth) (bool, error) {
			pm.PaymentStatus = types.PaymentMonthStatusAtrasado
			pm.Touch(ctx)
			if err := s.PaymentMonthRepo.Update(ctx, pm); err != nil {
				return false, err
			}
			return true, nil
		},
	)

	recordJobRun(ctx, s.Logger, s.AuditLogRepo, types.JobMarkOverdue, result)
	return result, nil
}

func (s *billingService) ConfirmPayment(ctx context.Context, coraInvoiceID string) error {
	inv, err := s.InvoiceRepo.GetByCoraID(ctx, coraInvoiceID)
	if err != nil {
		return err
	}

	if inv.InvoiceStatus == types.InvoiceStatusPaid {
		// duplicate confirmation, nothing to do
		return nil
	}
	if err := inv.TransitionTo(types.InvoiceStatusPaid); err != nil {
		return err
	}
	inv.Touch(ctx)
	if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
		return err
	}

	// settle the linked obligation; terminal rows stay untouched
	pm, err := s.PaymentMonthRepo.GetByInvoiceID(ctx, inv.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("paid invoice has no linked payment month", "invoice_id", inv.ID)
			return nil
		}
		return err
	}
	if !pm.PaymentStatus.IsTerminal() {
		pm.PaymentStatus = types.PaymentMonthStatusPago
		pm.Touch(ctx)
		if err := s.PaymentMonthRepo.Update(ctx, pm); err != nil {
			return err
		}
	}

	s.Logger.Infow("confirmed payment",
		"invoice_id", inv.ID,
		"cora_invoice_id", coraInvoiceID,
	)

	return nil
}

func (s *billingService) CancelCycle(ctx context.Context, paymentMonthID string) error {
	pm, err := s.PaymentMonthRepo.Get(ctx, paymentMonthID)
	if err != nil {
		return err
	}

	if pm.PaymentStatus.IsTerminal() {
		return ierr.NewError("billing cycle already settled").
			WithHint("Paid or cancelled cycles cannot be cancelled").
			WithReportableDetails(map[string]any{
				"payment_month_id": pm.ID,
				"payment_status":   pm.PaymentStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	if pm.InvoiceID != nil {
		inv, err := s.InvoiceRepo.Get(ctx, *pm.InvoiceID)
		if err != nil {
			return err
		}
		// a paid invoice is immutable, TransitionTo rejects the cancel
		if err := inv.TransitionTo(types.InvoiceStatusCancelled); err != nil {
			return err
		}
		if err := s.CoraClient.CancelInvoice(ctx, inv.CoraInvoiceID); err != nil {
			return err
		}
		inv.Touch(ctx)
		if err := s.InvoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
	}

	pm.PaymentStatus = types.PaymentMonthStatusCancelado
	pm.Touch(ctx)
	if err := s.PaymentMonthRepo.Update(ctx, pm); err != nil {
		return err
	}

	s.Logger.Infow("cancelled billing cycle",
		"payment_month_id", pm.ID,
		"enrollment_id", pm.EnrollmentID,
	)

	return nil
}

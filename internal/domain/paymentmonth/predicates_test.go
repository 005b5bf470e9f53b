package paymentmonth

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/aulalivre/aulalivre/internal/types"
)

func openMonth(year, month, dueDay int) *PaymentMonth {
	return &PaymentMonth{
		ID:            "pm_test",
		EnrollmentID:  "enr_test",
		Year:          year,
		Month:         month,
		DueDay:        dueDay,
		PaymentStatus: types.PaymentMonthStatusEmAberto,
	}
}

func TestIsOverdueBoundary(t *testing.T) {
	pm := openMonth(2025, 3, 10)

	testCases := []struct {
		name    string
		now     time.Time
		overdue bool
	}{
		{
			name:    "start_of_due_day",
			now:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			overdue: false,
		},
		{
			name:    "end_of_due_day",
			now:     time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC),
			overdue: false,
		},
		{
			name:    "start_of_day_after",
			now:     time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			overdue: true,
		},
		{
			name:    "well_past_due",
			now:     time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
			overdue: true,
		},
		{
			name:    "before_due_day",
			now:     time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC),
			overdue: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overdue, IsOverdue(pm, tc.now))
		})
	}
}

func TestIsOverdueIgnoresNonOpenStatuses(t *testing.T) {
	wellPast := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, status := range []types.PaymentMonthStatus{
		types.PaymentMonthStatusPago,
		types.PaymentMonthStatusAtrasado,
		types.PaymentMonthStatusCancelado,
	} {
		pm := openMonth(2025, 3, 10)
		pm.PaymentStatus = status
		assert.False(t, IsOverdue(pm, wellPast), "status %s must never be selected", status)
	}
}

func TestDueDateClampsToMonthEnd(t *testing.T) {
	// February has no 30th; the due date clamps to the last day
	pm := openMonth(2025, 2, 30)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), pm.DueDate())

	leap := openMonth(2024, 2, 30)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), leap.DueDate())
}

func TestNeedsInvoice(t *testing.T) {
	pm := openMonth(2025, 3, 10)
	assert.True(t, NeedsInvoice(pm))

	pm.InvoiceID = lo.ToPtr("inv_123")
	assert.False(t, NeedsInvoice(pm))

	pm.InvoiceID = nil
	pm.PaymentStatus = types.PaymentMonthStatusPago
	assert.False(t, NeedsInvoice(pm))
}

func TestNeedsNotification(t *testing.T) {
	lookahead := 3 * 24 * time.Hour

	testCases := []struct {
		name     string
		now      time.Time
		notified bool
		want     bool
	}{
		{
			name: "due_in_two_days",
			now:  time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "due_today",
			now:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "due_too_far_out",
			now:  time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "already_past_due",
			now:  time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name:     "already_notified",
			now:      time.Date(2025, 3, 8, 9, 0, 0, 0, time.UTC),
			notified: true,
			want:     false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pm := openMonth(2025, 3, 10)
			if tc.notified {
				pm.NotifiedAt = lo.ToPtr(tc.now.Add(-24 * time.Hour))
			}
			assert.Equal(t, tc.want, NeedsNotification(pm, tc.now, lookahead))
		})
	}
}

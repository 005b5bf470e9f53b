package nfse

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"github.com/aulalivre/aulalivre/internal/types"
)

func TestCanRetry(t *testing.T) {
	const maxAttempts = 5

	testCases := []struct {
		name   string
		record *NfseInvoice
		want   bool
	}{
		{
			name:   "failed_below_ceiling",
			record: &NfseInvoice{NfseStatus: types.NfseStatusErro, Attempts: 1},
			want:   true,
		},
		{
			name:   "failed_at_ceiling",
			record: &NfseInvoice{NfseStatus: types.NfseStatusErro, Attempts: maxAttempts},
			want:   false,
		},
		{
			name:   "pending_is_not_retried",
			record: &NfseInvoice{NfseStatus: types.NfseStatusPending, Attempts: 1},
			want:   false,
		},
		{
			name:   "authorized_is_not_retried",
			record: &NfseInvoice{NfseStatus: types.NfseStatusAutorizado, Attempts: 1},
			want:   false,
		},
		{
			name: "cancelled_is_not_retried",
			record: &NfseInvoice{
				NfseStatus:  types.NfseStatusErro,
				Attempts:    1,
				CancelledAt: lo.ToPtr(time.Now().UTC()),
			},
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanRetry(tc.record, maxAttempts))
		})
	}
}

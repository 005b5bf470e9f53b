package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aulalivre/aulalivre/internal/config"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/types"
)

func noopJob(_ context.Context) (*types.JobRunResult, error) {
	return types.NewJobRunResult(), nil
}

func fullRegistry() Registry {
	return Registry{
		types.JobGenerateInvoices:     noopJob,
		types.JobMarkOverdue:          noopJob,
		types.JobNfseRetry:            noopJob,
		types.JobNfseStatus:           noopJob,
		types.JobPaymentNotifications: noopJob,
	}
}

func TestNewRegistersAllJobs(t *testing.T) {
	cfg := config.GetDefaultConfig()
	h := New(cfg, fullRegistry(), logger.NewNopLogger())
	assert.Equal(t, 5, h.Entries())
}

func TestNewSkipsMalformedExpression(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Cron.MarkOverdue = "not a cron expression"

	h := New(cfg, fullRegistry(), logger.NewNopLogger())

	// the bad entry is dropped, the other four still run
	assert.Equal(t, 4, h.Entries())
}

func TestStartIsIdempotent(t *testing.T) {
	cfg := config.GetDefaultConfig()
	h := New(cfg, fullRegistry(), logger.NewNopLogger())
	defer h.Stop()

	h.Start()
	entries := h.Entries()

	h.Start()
	assert.Equal(t, entries, h.Entries(), "second start must not re-register entries")
}

func TestStopBeforeStart(t *testing.T) {
	cfg := config.GetDefaultConfig()
	h := New(cfg, fullRegistry(), logger.NewNopLogger())

	assert.NotPanics(t, func() { h.Stop() })
}

func TestStartStopStart(t *testing.T) {
	cfg := config.GetDefaultConfig()
	h := New(cfg, fullRegistry(), logger.NewNopLogger())

	h.Start()
	h.Stop()
	h.Start()
	assert.Equal(t, 5, h.Entries())
	h.Stop()
}

package scheduler

import (
	"context"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/aulalivre/aulalivre/internal/config"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/types"
)

// JobFunc is one runnable job. Every job is idempotent, so a fire that
// overlaps a manual trigger does redundant reads, not duplicate writes.
type JobFunc func(ctx context.Context) (*types.JobRunResult, error)

// Registry maps job names to their runners
type Registry map[types.JobName]JobFunc

// fireTimeout bounds a single scheduled run
const fireTimeout = 10 * time.Minute

// cronParser accepts the standard five-field form plus descriptors
var cronParser = cronlib.NewParser(
	cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor,
)

// Handle owns the cron loop for all periodic jobs. Construction registers
// the entries; Start arms the clock. Start is idempotent and Stop waits for
// in-flight fires to finish.
type Handle struct {
	cron   *cronlib.Cron
	logger *logger.Logger

	mu    sync.Mutex
	armed bool
}

// New builds a scheduler handle from the configured expressions. A
// malformed expression disables that one job with an error log; the
// remaining jobs still run.
func New(cfg *config.Configuration, registry Registry, log *logger.Logger) *Handle {
	h := &Handle{
		cron:   cronlib.New(cronlib.WithParser(cronParser), cronlib.WithLocation(time.UTC)),
		logger: log,
	}

	entries := []struct {
		name types.JobName
		expr string
	}{
		{types.JobGenerateInvoices, cfg.Cron.GenerateInvoices},
		{types.JobMarkOverdue, cfg.Cron.MarkOverdue},
		{types.JobNfseRetry, cfg.Cron.NfseRetry},
		{types.JobNfseStatus, cfg.Cron.NfseStatus},
		{types.JobPaymentNotifications, cfg.Cron.PaymentNotifications},
	}

	for _, e := range entries {
		run, ok := registry[e.name]
		if !ok {
			log.Errorw("no runner registered for job", "job", e.name)
			continue
		}
		if _, err := h.cron.AddFunc(e.expr, h.fire(e.name, run)); err != nil {
			log.Errorw("invalid cron expression, job disabled",
				"job", e.name,
				"expression", e.expr,
				"error", err,
			)
			continue
		}
		log.Infow("registered scheduled job", "job", e.name, "expression", e.expr)
	}

	return h
}

// fire wraps one job run with a timeout, panic recovery and logging. A
// panicking job must not take the scheduler down with it.
func (h *Handle) fire(name types.JobName, run JobFunc) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				h.logger.Errorw("scheduled job panicked", "job", name, "panic", r)
			}
		}()

		result, err := run(ctx)
		if err != nil {
			h.logger.Errorw("scheduled job failed", "job", name, "error", err)
			return
		}
		h.logger.Infow("scheduled job finished",
			"job", name,
			"processed", result.Processed,
			"skipped", result.Skipped,
			"failed", len(result.Errors),
		)
	}
}

// Start arms the clock. Calling it again is a no-op; entries are never
// registered twice.
func (h *Handle) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.armed {
		h.logger.Debugw("scheduler already started")
		return
	}
	h.armed = true
	h.cron.Start()
	h.logger.Infow("scheduler started", "entries", len(h.cron.Entries()))
}

// Stop halts the clock and blocks until in-flight fires return
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.armed {
		return
	}
	h.armed = false
	<-h.cron.Stop().Done()
	h.logger.Infow("scheduler stopped")
}

// Entries exposes the registered entry count, used by health reporting
func (h *Handle) Entries() int {
	return len(h.cron.Entries())
}

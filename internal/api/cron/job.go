package cron

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/service"
	"github.com/aulalivre/aulalivre/internal/types"
)

// JobHandler exposes manual triggers for the scheduled jobs. The routes sit
// behind authentication and the admin gate; every job is idempotent, so a
// manual trigger overlapping a scheduled fire is harmless.
type JobHandler struct {
	billing      service.BillingService
	nfse         service.NfseService
	notification service.NotificationService
	log          *logger.Logger
}

func NewJobHandler(
	billing service.BillingService,
	nfse service.NfseService,
	notification service.NotificationService,
	log *logger.Logger,
) *JobHandler {
	return &JobHandler{
		billing:      billing,
		nfse:         nfse,
		notification: notification,
		log:          log,
	}
}

func (h *JobHandler) GenerateInvoices(c *gin.Context) {
	h.run(c, types.JobGenerateInvoices, h.billing.GenerateInvoices)
}

func (h *JobHandler) MarkOverdue(c *gin.Context) {
	h.run(c, types.JobMarkOverdue, h.billing.MarkOverdue)
}

func (h *JobHandler) NfseRetry(c *gin.Context) {
	h.run(c, types.JobNfseRetry, h.nfse.RetryFailed)
}

func (h *JobHandler) NfseStatus(c *gin.Context) {
	h.run(c, types.JobNfseStatus, h.nfse.PollPending)
}

func (h *JobHandler) PaymentNotifications(c *gin.Context) {
	h.run(c, types.JobPaymentNotifications, h.notification.SendPaymentReminders)
}

// run executes one job and writes the summary verbatim. Whole-job failures
// are logged with full detail server-side; the response body stays generic
// so configuration and infrastructure state never leaks to callers.
func (h *JobHandler) run(c *gin.Context, name types.JobName, job func(ctx context.Context) (*types.JobRunResult, error)) {
	ctx := c.Request.Context()

	result, err := job(ctx)
	if err != nil {
		h.log.Errorw("manual job trigger failed",
			"job", name,
			"user_id", types.GetUserID(ctx),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "internal error"})
		return
	}

	h.log.Infow("manual job trigger completed",
		"job", name,
		"user_id", types.GetUserID(ctx),
		"processed", result.Processed,
	)

	c.JSON(http.StatusOK, result)
}

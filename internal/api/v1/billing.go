package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/service"
)

type BillingHandler struct {
	service service.BillingService
	log     *logger.Logger
}

func NewBillingHandler(service service.BillingService, log *logger.Logger) *BillingHandler {
	return &BillingHandler{service: service, log: log}
}

// CancelCycle cancels a billing cycle and its open boleto, if any.
func (h *BillingHandler) CancelCycle(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("missing payment month id").
			WithHint("Payment month id is required").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.CancelCycle(ctx, id); err != nil {
		c.Error(err)
		return
	}

	h.log.Infow("billing cycle cancelled via api", "payment_month_id", id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

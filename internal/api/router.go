package api

import (
	"github.com/gin-gonic/gin"

	"github.com/aulalivre/aulalivre/internal/api/cron"
	v1 "github.com/aulalivre/aulalivre/internal/api/v1"
	"github.com/aulalivre/aulalivre/internal/auth"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/rest/middleware"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Auth    *v1.AuthHandler
	Billing *v1.BillingHandler
	Cron    *cron.JobHandler
}

func NewRouter(handlers Handlers, provider *auth.Provider, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, provider, log)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, provider *auth.Provider, log *logger.Logger) {
	router.POST("/auth/login", handlers.Auth.Login)

	billingGroup := router.Group("/billing")
	billingGroup.Use(
		middleware.AuthenticateMiddleware(provider, log),
		middleware.AdminOnlyMiddleware(log),
	)
	{
		billingGroup.POST("/payment-months/:id/cancel", handlers.Billing.CancelCycle)
	}

	// manual job triggers, admin only
	cronGroup := router.Group("/cron")
	cronGroup.Use(
		middleware.AuthenticateMiddleware(provider, log),
		middleware.AdminOnlyMiddleware(log),
	)
	{
		// GET kept alongside POST so ops can trigger a run from a browser
		cronGroup.Match([]string{"GET", "POST"}, "/generate-invoices", handlers.Cron.GenerateInvoices)
		cronGroup.Match([]string{"GET", "POST"}, "/mark-overdue", handlers.Cron.MarkOverdue)
		cronGroup.Match([]string{"GET", "POST"}, "/nfse-retry", handlers.Cron.NfseRetry)
		cronGroup.Match([]string{"GET", "POST"}, "/nfse-status", handlers.Cron.NfseStatus)
		cronGroup.Match([]string{"GET", "POST"}, "/payment-notifications", handlers.Cron.PaymentNotifications)
	}
}

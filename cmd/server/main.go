package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/aulalivre/aulalivre/internal/api"
	"github.com/aulalivre/aulalivre/internal/api/cron"
	v1 "github.com/aulalivre/aulalivre/internal/api/v1"
	"github.com/aulalivre/aulalivre/internal/auth"
	"github.com/aulalivre/aulalivre/internal/config"
	"github.com/aulalivre/aulalivre/internal/email"
	"github.com/aulalivre/aulalivre/internal/gateway/cora"
	gwnfse "github.com/aulalivre/aulalivre/internal/gateway/nfse"
	"github.com/aulalivre/aulalivre/internal/httpclient"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/postgres"
	"github.com/aulalivre/aulalivre/internal/repository"
	"github.com/aulalivre/aulalivre/internal/scheduler"
	"github.com/aulalivre/aulalivre/internal/service"
	"github.com/aulalivre/aulalivre/internal/types"
)

func init() {
	// all derived due dates and cron fires are UTC
	time.Local = time.UTC
}

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			provideLogger,
			postgres.NewDB,
			httpclient.NewDefaultClient,

			// Repositories
			repository.NewEnrollmentRepository,
			repository.NewPaymentMonthRepository,
			repository.NewInvoiceRepository,
			repository.NewNfseRepository,
			repository.NewAuditLogRepository,
			repository.NewUserRepository,

			// External collaborators
			provideCoraClient,
			provideNfseClient,
			provideEmailSender,
			auth.NewProvider,

			// Services
			service.NewServiceParams,
			service.NewBillingService,
			service.NewNfseService,
			service.NewNotificationService,
			service.NewAuthService,

			// Scheduler and HTTP surface
			provideScheduler,
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startApp),
	)

	app.Run()
}

func provideLogger(cfg *config.Configuration) (*logger.Logger, error) {
	return logger.NewLogger(cfg.Logging.Level)
}

func provideCoraClient(cfg *config.Configuration, http httpclient.Client, log *logger.Logger) cora.Client {
	return cora.NewClient(cora.Config{
		BaseURL: cfg.Cora.BaseURL,
		APIKey:  cfg.Cora.APIKey,
	}, http, log)
}

func provideNfseClient(cfg *config.Configuration, http httpclient.Client, log *logger.Logger) gwnfse.Client {
	return gwnfse.NewClient(gwnfse.Config{
		BaseURL: cfg.Nfse.BaseURL,
		Token:   cfg.Nfse.Token,
	}, http, log)
}

func provideEmailSender(cfg *config.Configuration, log *logger.Logger) email.Sender {
	return email.NewSender(email.Config{
		Enabled:     cfg.Email.Enabled,
		APIKey:      cfg.Email.APIKey,
		FromAddress: cfg.Email.FromAddress,
	}, log)
}

func provideScheduler(
	cfg *config.Configuration,
	billingService service.BillingService,
	nfseService service.NfseService,
	notificationService service.NotificationService,
	log *logger.Logger,
) *scheduler.Handle {
	registry := scheduler.Registry{
		types.JobGenerateInvoices:     billingService.GenerateInvoices,
		types.JobMarkOverdue:          billingService.MarkOverdue,
		types.JobNfseRetry:            nfseService.RetryFailed,
		types.JobNfseStatus:           nfseService.PollPending,
		types.JobPaymentNotifications: notificationService.SendPaymentReminders,
	}
	return scheduler.New(cfg, registry, log)
}

func provideHandlers(
	authService service.AuthService,
	billingService service.BillingService,
	nfseService service.NfseService,
	notificationService service.NotificationService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(),
		Auth:    v1.NewAuthHandler(authService, log),
		Billing: v1.NewBillingHandler(billingService, log),
		Cron:    cron.NewJobHandler(billingService, nfseService, notificationService, log),
	}
}

func provideRouter(handlers api.Handlers, provider *auth.Provider, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, provider, log)
}

func startApp(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	sched *scheduler.Handle,
	db *postgres.DB,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startAPIServer(lc, r, cfg, log)
		startScheduler(lc, sched, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeScheduler:
		startScheduler(lc, sched, cfg, log)
	default:
		log.Fatalf("unknown deployment mode: %s", mode)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return nil
		},
	})
}

func startScheduler(
	lc fx.Lifecycle,
	sched *scheduler.Handle,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	if !cfg.Cron.Enabled {
		log.Warnw("cron scheduler disabled by configuration")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})
}

package service

import (
	"github.com/aulalivre/aulalivre/internal/auth"
	"github.com/aulalivre/aulalivre/internal/config"
	"github.com/aulalivre/aulalivre/internal/domain/auditlog"
	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	"github.com/aulalivre/aulalivre/internal/domain/invoice"
	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	"github.com/aulalivre/aulalivre/internal/domain/user"
	"github.com/aulalivre/aulalivre/internal/email"
	"github.com/aulalivre/aulalivre/internal/gateway/cora"
	nfsegw "github.com/aulalivre/aulalivre/internal/gateway/nfse"
	"github.com/aulalivre/aulalivre/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	EnrollmentRepo   enrollment.Repository
	PaymentMonthRepo paymentmonth.Repository
	InvoiceRepo      invoice.Repository
	NfseRepo         nfse.Repository
	AuditLogRepo     auditlog.Repository
	UserRepo         user.Repository

	// External collaborators
	CoraClient  cora.Client
	NfseClient  nfsegw.Client
	EmailSender email.Sender

	// Auth
	AuthProvider *auth.Provider
}

// NewServiceParams assembles the shared dependency bundle
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	enrollmentRepo enrollment.Repository,
	paymentMonthRepo paymentmonth.Repository,
	invoiceRepo invoice.Repository,
	nfseRepo nfse.Repository,
	auditLogRepo auditlog.Repository,
	userRepo user.Repository,
	coraClient cora.Client,
	nfseClient nfsegw.Client,
	emailSender email.Sender,
	authProvider *auth.Provider,
) ServiceParams {
	return ServiceParams{
		Logger:           logger,
		Config:           config,
		EnrollmentRepo:   enrollmentRepo,
		PaymentMonthRepo: paymentMonthRepo,
		InvoiceRepo:      invoiceRepo,
		NfseRepo:         nfseRepo,
		AuditLogRepo:     auditLogRepo,
		UserRepo:         userRepo,
		CoraClient:       coraClient,
		NfseClient:       nfseClient,
		EmailSender:      emailSender,
		AuthProvider:     authProvider,
	}
}

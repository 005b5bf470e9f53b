package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/aulalivre/aulalivre/internal/auth"
	"github.com/aulalivre/aulalivre/internal/config"
	"github.com/aulalivre/aulalivre/internal/domain/auditlog"
	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	"github.com/aulalivre/aulalivre/internal/domain/invoice"
	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	"github.com/aulalivre/aulalivre/internal/domain/user"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/types"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	EnrollmentRepo   enrollment.Repository
	PaymentMonthRepo paymentmonth.Repository
	InvoiceRepo      invoice.Repository
	NfseRepo         nfse.Repository
	AuditLogRepo     auditlog.Repository
	UserRepo         user.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cora   *FakeCoraClient
	nfse   *FakeNfseClient
	email  *FakeEmailSender
	auth   *auth.Provider
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
	s.auth = auth.NewProvider(s.config)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.cora = NewFakeCoraClient()
	s.nfse = NewFakeNfseClient()
	s.email = NewFakeEmailSender()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		EnrollmentRepo:   NewInMemoryEnrollmentStore(),
		PaymentMonthRepo: NewInMemoryPaymentMonthStore(),
		InvoiceRepo:      NewInMemoryInvoiceStore(),
		NfseRepo:         NewInMemoryNfseStore(),
		AuditLogRepo:     NewInMemoryAuditLogStore(),
		UserRepo:         NewInMemoryUserStore(),
	}
}

// ClearStores empties every in-memory store
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.EnrollmentRepo.(*InMemoryEnrollmentStore).Clear()
	s.stores.PaymentMonthRepo.(*InMemoryPaymentMonthStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.NfseRepo.(*InMemoryNfseStore).Clear()
	s.stores.AuditLogRepo.(*InMemoryAuditLogStore).Clear()
	s.stores.UserRepo.(*InMemoryUserStore).Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetStores returns the repository bundle
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCora returns the fake boleto gateway
func (s *BaseServiceTestSuite) GetCora() *FakeCoraClient {
	return s.cora
}

// GetNfse returns the fake tax invoice provider
func (s *BaseServiceTestSuite) GetNfse() *FakeNfseClient {
	return s.nfse
}

// GetEmail returns the fake email sender
func (s *BaseServiceTestSuite) GetEmail() *FakeEmailSender {
	return s.email
}

// GetAuthProvider returns the token provider built from the test config
func (s *BaseServiceTestSuite) GetAuthProvider() *auth.Provider {
	return s.auth
}

// GetNow returns the time captured at test setup
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetUUID returns a fresh identifier
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

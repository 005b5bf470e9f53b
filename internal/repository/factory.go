package repository

import (
	"github.com/aulalivre/aulalivre/internal/domain/auditlog"
	"github.com/aulalivre/aulalivre/internal/domain/enrollment"
	"github.com/aulalivre/aulalivre/internal/domain/invoice"
	"github.com/aulalivre/aulalivre/internal/domain/nfse"
	"github.com/aulalivre/aulalivre/internal/domain/paymentmonth"
	"github.com/aulalivre/aulalivre/internal/domain/user"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/postgres"
	postgresRepo "github.com/aulalivre/aulalivre/internal/repository/postgres"
)

func NewEnrollmentRepository(db *postgres.DB, logger *logger.Logger) enrollment.Repository {
	return postgresRepo.NewEnrollmentRepository(db, logger)
}

func NewPaymentMonthRepository(db *postgres.DB, logger *logger.Logger) paymentmonth.Repository {
	return postgresRepo.NewPaymentMonthRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewNfseRepository(db *postgres.DB, logger *logger.Logger) nfse.Repository {
	return postgresRepo.NewNfseRepository(db, logger)
}

func NewAuditLogRepository(db *postgres.DB, logger *logger.Logger) auditlog.Repository {
	return postgresRepo.NewAuditLogRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return postgresRepo.NewUserRepository(db, logger)
}

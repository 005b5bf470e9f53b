package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Auth       AuthConfig       `validate:"required"`
	Cron       CronConfig       `validate:"required"`
	Cora       CoraConfig
	Nfse       NfseConfig
	Email      EmailConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type AuthConfig struct {
	// Secret signs the JWTs issued at /v1/auth/login
	Secret      string        `validate:"required"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

// CronConfig carries one five-field cron expression per job. The process
// clock is UTC; the defaults below note the Brasilia (BRT, UTC-3) wall time
// they correspond to.
type CronConfig struct {
	Enabled bool

	// 09:00 UTC = 06:00 BRT, monthly billing cycle start
	GenerateInvoices string `mapstructure:"generate_invoices"`
	// 07:00 UTC = 04:00 BRT, hours after invoice generation on purpose
	MarkOverdue string `mapstructure:"mark_overdue"`
	// Hourly retry sweep for rejected tax invoices
	NfseRetry string `mapstructure:"nfse_retry"`
	// Every five minutes; the municipal provider resolves asynchronously
	NfseStatus string `mapstructure:"nfse_status"`
	// 12:00 UTC = 09:00 BRT, once a day
	PaymentNotifications string `mapstructure:"payment_notifications"`

	// NotificationLookaheadDays is the due-date window for payment reminders
	NotificationLookaheadDays int `mapstructure:"notification_lookahead_days"`
	// NfseMaxAttempts is the retry ceiling for failed tax invoice submissions
	NfseMaxAttempts int `mapstructure:"nfse_max_attempts"`
}

type CoraConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type NfseConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Token   string
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/aulalivre")

	v.SetEnvPrefix("AULALIVRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("auth.token_expiry", "24h")

	v.SetDefault("cron.enabled", true)
	v.SetDefault("cron.generate_invoices", "0 9 1 * *")
	v.SetDefault("cron.mark_overdue", "0 7 * * *")
	v.SetDefault("cron.nfse_retry", "0 * * * *")
	v.SetDefault("cron.nfse_status", "*/5 * * * *")
	v.SetDefault("cron.payment_notifications", "0 12 * * *")
	v.SetDefault("cron.notification_lookahead_days", 3)
	v.SetDefault("cron.nfse_max_attempts", 5)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests; no external credentials are set.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Auth:       AuthConfig{Secret: "test-secret", TokenExpiry: 24 * time.Hour},
		Cron: CronConfig{
			Enabled:                   true,
			GenerateInvoices:          "0 9 1 * *",
			MarkOverdue:               "0 7 * * *",
			NfseRetry:                 "0 * * * *",
			NfseStatus:                "*/5 * * * *",
			PaymentNotifications:      "0 12 * * *",
			NotificationLookaheadDays: 3,
			NfseMaxAttempts:           5,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}

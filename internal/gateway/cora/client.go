package cora

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/httpclient"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/shopspring/decimal"
)

// Client is the boleto gateway boundary. The remote side offers no
// idempotency guarantee, so callers must not retry a successful create.
type Client interface {
	// Enabled reports whether gateway credentials are configured
	Enabled() bool
	// CreateInvoice registers a boleto and returns the gateway's invoice id
	CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (string, error)
	// CancelInvoice cancels an open boleto at the gateway
	CancelInvoice(ctx context.Context, coraInvoiceID string) error
}

// CreateInvoiceRequest carries everything the gateway needs to issue a boleto
type CreateInvoiceRequest struct {
	EnrollmentID string          `json:"code"`
	CustomerName string          `json:"customer_name"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date"`
}

// Config holds the gateway credentials
type Config struct {
	BaseURL string
	APIKey  string
}

type client struct {
	http   httpclient.Client
	cfg    Config
	logger *logger.Logger
}

// NewClient creates a boleto gateway client. With missing credentials the
// client is constructed disabled; calls fail with a configuration error and
// dependent jobs report it instead of crashing.
func NewClient(cfg Config, http httpclient.Client, logger *logger.Logger) Client {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		logger.Warnw("cora gateway credentials missing, invoice generation disabled")
	}
	return &client{http: http, cfg: cfg, logger: logger}
}

func (c *client) Enabled() bool {
	return c.cfg.BaseURL != "" && c.cfg.APIKey != ""
}

func (c *client) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (string, error) {
	if !c.Enabled() {
		return "", ierr.NewError("cora gateway not configured").
			WithHint("Billing gateway credentials are missing").
			Mark(ierr.ErrConfiguration)
	}

	body, err := json.Marshal(map[string]any{
		"code":          req.EnrollmentID,
		"customer_name": req.CustomerName,
		"amount":        req.Amount.StringFixed(2),
		"due_date":      req.DueDate.Format("2006-01-02"),
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to encode invoice request").
			Mark(ierr.ErrSystem)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     fmt.Sprintf("%s/invoices", c.cfg.BaseURL),
		Headers: c.headers(),
		Body:    body,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil || out.ID == "" {
		return "", ierr.NewError("unexpected gateway response").
			WithHint("Billing gateway returned an unreadable invoice").
			Mark(ierr.ErrGateway)
	}

	c.logger.Debugw("created boleto at gateway",
		"enrollment_id", req.EnrollmentID,
		"cora_invoice_id", out.ID,
	)

	return out.ID, nil
}

func (c *client) CancelInvoice(ctx context.Context, coraInvoiceID string) error {
	if !c.Enabled() {
		return ierr.NewError("cora gateway not configured").
			WithHint("Billing gateway credentials are missing").
			Mark(ierr.ErrConfiguration)
	}

	_, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodDelete,
		URL:     fmt.Sprintf("%s/invoices/%s", c.cfg.BaseURL, coraInvoiceID),
		Headers: c.headers(),
	})
	return err
}

func (c *client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
		"Accept":        "application/json",
	}
}

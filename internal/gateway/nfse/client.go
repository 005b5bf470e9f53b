package nfse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
	"github.com/aulalivre/aulalivre/internal/httpclient"
	"github.com/aulalivre/aulalivre/internal/logger"
	"github.com/aulalivre/aulalivre/internal/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

// Client is the municipal tax invoice boundary. Submissions resolve
// asynchronously on the provider side; callers submit, then poll.
type Client interface {
	// Enabled reports whether provider credentials are configured
	Enabled() bool
	// SubmitTaxInvoice submits an NFSe and returns the provider's submission id
	SubmitTaxInvoice(ctx context.Context, sub *Submission) (string, error)
	// PollTaxInvoiceStatus fetches the resolution of an in-flight submission
	PollTaxInvoiceStatus(ctx context.Context, submissionID string) (*StatusResult, error)
}

// Submission is the payload for one tax invoice
type Submission struct {
	EnrollmentID string
	CustomerName string
	Year         int
	Month        int
	Amount       decimal.Decimal
}

// StatusResult is the provider's resolution of a submission
type StatusResult struct {
	Status           types.NfseStatus
	OfficialNumber   string
	VerificationCode string
	ErrorReason      string
}

// Config holds the provider credentials
type Config struct {
	BaseURL string
	Token   string
}

type client struct {
	http   httpclient.Client
	cfg    Config
	logger *logger.Logger
}

// NewClient creates an NFSe provider client; disabled without credentials
func NewClient(cfg Config, http httpclient.Client, logger *logger.Logger) Client {
	if cfg.BaseURL == "" || cfg.Token == "" {
		logger.Warnw("nfse provider credentials missing, tax invoicing disabled")
	}
	return &client{http: http, cfg: cfg, logger: logger}
}

func (c *client) Enabled() bool {
	return c.cfg.BaseURL != "" && c.cfg.Token != ""
}

func (c *client) SubmitTaxInvoice(ctx context.Context, sub *Submission) (string, error) {
	if !c.Enabled() {
		return "", ierr.NewError("nfse provider not configured").
			WithHint("Tax invoice provider credentials are missing").
			Mark(ierr.ErrConfiguration)
	}

	body, err := json.Marshal(map[string]any{
		"reference":     sub.EnrollmentID,
		"customer_name": sub.CustomerName,
		"competence":    fmt.Sprintf("%04d-%02d", sub.Year, sub.Month),
		"amount":        sub.Amount.StringFixed(2),
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to encode nfse submission").
			Mark(ierr.ErrSystem)
	}

	// The provider drops connections under load; a short exponential
	// backoff rides out transient failures without hammering it.
	var submissionID string
	operation := func() error {
		resp, err := c.http.Send(ctx, &httpclient.Request{
			Method:  http.MethodPost,
			URL:     fmt.Sprintf("%s/nfse", c.cfg.BaseURL),
			Headers: c.headers(),
			Body:    body,
		})
		if err != nil {
			if httpErr, ok := httpclient.IsHTTPError(err); ok && httpErr.StatusCode < 500 {
				// provider rejected the payload; retrying will not help
				return backoff.Permanent(err)
			}
			return err
		}

		var out struct {
			SubmissionID string `json:"submission_id"`
		}
		if err := json.Unmarshal(resp.Body, &out); err != nil || out.SubmissionID == "" {
			return backoff.Permanent(ierr.NewError("unexpected provider response").
				WithHint("Tax invoice provider returned an unreadable submission").
				Mark(ierr.ErrGateway))
		}
		submissionID = out.SubmissionID
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return "", err
	}

	c.logger.Debugw("submitted nfse",
		"enrollment_id", sub.EnrollmentID,
		"submission_id", submissionID,
	)

	return submissionID, nil
}

func (c *client) PollTaxInvoiceStatus(ctx context.Context, submissionID string) (*StatusResult, error) {
	if !c.Enabled() {
		return nil, ierr.NewError("nfse provider not configured").
			WithHint("Tax invoice provider credentials are missing").
			Mark(ierr.ErrConfiguration)
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/nfse/%s", c.cfg.BaseURL, submissionID),
		Headers: c.headers(),
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Status           string `json:"status"`
		OfficialNumber   string `json:"official_number"`
		VerificationCode string `json:"verification_code"`
		Error            string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, ierr.NewError("unexpected provider response").
			WithHint("Tax invoice provider returned an unreadable status").
			Mark(ierr.ErrGateway)
	}

	result := &StatusResult{
		Status:           types.NfseStatus(out.Status),
		OfficialNumber:   out.OfficialNumber,
		VerificationCode: out.VerificationCode,
		ErrorReason:      out.Error,
	}
	if err := result.Status.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tax invoice provider returned an unknown status").
			Mark(ierr.ErrGateway)
	}

	return result, nil
}

func (c *client) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.Token,
		"Accept":        "application/json",
	}
}

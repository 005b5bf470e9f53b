package httpclient

import (
	"fmt"

	"github.com/cockroachdb/errors"

	ierr "github.com/aulalivre/aulalivre/internal/errors"
)

// Error represents a non-2xx response from an upstream HTTP API
type Error struct {
	StatusCode int
	Response   []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// NewError creates a new HTTP client error marked as a gateway error
func NewError(statusCode int, response []byte) error {
	return ierr.WithError(&Error{StatusCode: statusCode, Response: response}).
		WithHintf("Upstream request failed with status %d", statusCode).
		Mark(ierr.ErrGateway)
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

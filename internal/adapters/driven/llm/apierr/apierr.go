// Package apierr maps provider HTTP failures onto domain errors.
package apierr

import (
	"fmt"
	"net/http"

	"github.com/custodia-labs/conahgpt/internal/core/domain"
)

// maxBody caps how much of an error body is kept in the message.
const maxBody = 512

// FromStatus builds the error for a non-200 provider response.
// Rate limiting and credential failures wrap the matching domain sentinel.
func FromStatus(provider string, status int, body []byte) error {
	msg := string(body)
	if len(msg) > maxBody {
		msg = msg[:maxBody] + "..."
	}

	switch status {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrRateLimited, status, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s: %w (status %d): %s", provider, domain.ErrUnauthorized, status, msg)
	default:
		return fmt.Errorf("%s error (status %d): %s", provider, status, msg)
	}
}

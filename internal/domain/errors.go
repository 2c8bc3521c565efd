package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ConfigurationError reports a fatal setup problem: missing credentials or a
// model id that no provider claims. It is surfaced at startup or on first
// use and never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NewConfigurationError creates a ConfigurationError with the given reason.
func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// UpstreamError carries a structured HTTP status reported by a backend SDK.
// Providers wrap SDK failures into this type at the backend boundary so the
// orchestrator can classify them without parsing message text.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
}

// User-facing failure categories. Raw errors and stack traces never reach
// the caller; every failure maps to one of these messages.
const (
	msgTimeout      = "request timed out, please retry later"
	msgConnReset    = "network connection reset, check your proxy or network"
	msgConnRefused  = "cannot reach the AI service, check network configuration"
	msgNetwork      = "network error, please retry"
	msgDNS          = "cannot resolve server address"
	msgUnauthorized = "authentication failed, check the API key"
	msgRateLimited  = "rate limited, please retry later"
	msgUnavailable  = "AI service temporarily unavailable"
)

// UserFacingMessage translates any pipeline failure into a category message
// suitable for a terminal ERROR event. Structured checks run first; substring
// matching on the deepest cause is the fallback for backends that only return
// opaque message text.
func UserFacingMessage(err error) string {
	if err == nil {
		return ""
	}

	cause := deepestCause(err)

	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}

	if errors.Is(err, syscall.ECONNRESET) {
		return msgConnReset
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return msgConnRefused
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return msgDNS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return msgNetwork
	}
	var sysErr syscall.Errno
	if errors.As(err, &sysErr) {
		return fmt.Sprintf("network error: %v", sysErr)
	}

	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		if msg := messageForStatus(upErr.Status); msg != "" {
			return msg
		}
		return "error processing request: " + upErr.Message
	}

	if msg := messageForText(cause.Error()); msg != "" {
		return msg
	}

	return "error processing request: " + cause.Error()
}

func messageForStatus(status int) string {
	switch status {
	case 401:
		return msgUnauthorized
	case 429:
		return msgRateLimited
	case 500, 502, 503:
		return msgUnavailable
	default:
		return ""
	}
}

// messageForText classifies an opaque error message by substring. First
// match wins, mirroring the structured mapping above.
func messageForText(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "timed out") || strings.Contains(lower, "timeout"):
		return msgTimeout
	case strings.Contains(lower, "connection reset"):
		return msgConnReset
	case strings.Contains(lower, "connection refused"):
		return msgConnRefused
	case strings.Contains(lower, "no such host"):
		return msgDNS
	case strings.Contains(text, "401") || strings.Contains(lower, "unauthorized"):
		return msgUnauthorized
	case strings.Contains(text, "429") || strings.Contains(lower, "rate limit"):
		return msgRateLimited
	case strings.Contains(text, "500") || strings.Contains(text, "502") || strings.Contains(text, "503"):
		return msgUnavailable
	default:
		return ""
	}
}

// deepestCause walks the unwrap chain to the root error.
func deepestCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

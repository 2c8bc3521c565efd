package domain_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qiyuey/bookagent/internal/domain"
)

var errConnRefused = syscall.ECONNREFUSED

func TestUserFacingMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "deadline exceeded",
			err:  fmt.Errorf("query pipeline: %w", context.DeadlineExceeded),
			want: "request timed out, please retry later",
		},
		{
			name: "connection reset",
			err:  fmt.Errorf("read tcp: %w", syscall.ECONNRESET),
			want: "network connection reset, check your proxy or network",
		},
		{
			name: "connection refused",
			err:  fmt.Errorf("dial tcp: %w", syscall.ECONNREFUSED),
			want: "cannot reach the AI service, check network configuration",
		},
		{
			name: "dns failure",
			err:  &net.OpError{Op: "dial", Err: &net.DNSError{Err: "no such host", Name: "api.example.com"}},
			want: "cannot resolve server address",
		},
		{
			name: "generic network failure",
			err:  &net.OpError{Op: "read", Err: errors.New("broken pipe")},
			want: "network error, please retry",
		},
		{
			name: "upstream unauthorized",
			err:  &domain.UpstreamError{Status: 401, Message: "Incorrect API key provided"},
			want: "authentication failed, check the API key",
		},
		{
			name: "upstream rate limited",
			err:  &domain.UpstreamError{Status: 429, Message: "Rate limit reached"},
			want: "rate limited, please retry later",
		},
		{
			name: "upstream unavailable",
			err:  &domain.UpstreamError{Status: 503, Message: "The server is overloaded"},
			want: "AI service temporarily unavailable",
		},
		{
			name: "upstream unknown status falls through to message",
			err:  &domain.UpstreamError{Status: 418, Message: "teapot"},
			want: "error processing request: teapot",
		},
		{
			name: "opaque unauthorized text",
			err:  errors.New("backend said: 401 Unauthorized"),
			want: "authentication failed, check the API key",
		},
		{
			name: "opaque rate limit text",
			err:  errors.New("rate limit exceeded for requests"),
			want: "rate limited, please retry later",
		},
		{
			name: "opaque server error text",
			err:  errors.New("upstream returned 502 Bad Gateway"),
			want: "AI service temporarily unavailable",
		},
		{
			name: "opaque timeout text",
			err:  errors.New("operation timed out after 3m"),
			want: "request timed out, please retry later",
		},
		{
			name: "classification uses the deepest cause",
			err:  fmt.Errorf("outer wrapper: %w", fmt.Errorf("inner: %w", errors.New("something odd"))),
			want: "error processing request: something odd",
		},
		{
			name: "unclassified error",
			err:  errors.New("something odd"),
			want: "error processing request: something odd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, domain.UserFacingMessage(tt.err))
		})
	}
}

func TestUserFacingMessage_Nil(t *testing.T) {
	require.Empty(t, domain.UserFacingMessage(nil))
}

func TestConfigurationError(t *testing.T) {
	err := domain.NewConfigurationError("no backend provider claims model %q", "zzz")
	require.EqualError(t, err, `configuration error: no backend provider claims model "zzz"`)
}

// Package openai provides the backend provider for OpenAI models. It claims
// model ids by prefix and supports routing traffic through an HTTP or SOCKS5
// proxy.
package openai

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/option"
	"golang.org/x/net/proxy"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/provider/openaicompat"
)

// modelPrefixes are the model id prefixes this provider claims.
var modelPrefixes = []string{"gpt-", "o1", "o3", "o4"}

// Provider implements domain.BackendProvider for OpenAI.
type Provider struct {
	opts []option.RequestOption
}

// NewProvider creates the OpenAI provider. A missing API key is a
// configuration error; callers that treat OpenAI as optional should check
// the key before constructing.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewConfigurationError("OpenAI API key is not configured; set OPENAI_API_KEY")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}
	if cfg.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	if cfg.ProxyURL != "" {
		httpClient, err := proxiedHTTPClient(cfg.ProxyURL)
		if err != nil {
			return nil, domain.NewConfigurationError("invalid OpenAI proxy URL %q: %v", cfg.ProxyURL, err)
		}
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &Provider{opts: opts}, nil
}

// Supports reports whether the model id carries an OpenAI prefix.
func (p *Provider) Supports(modelID string) bool {
	lower := strings.ToLower(modelID)
	for _, prefix := range modelPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// Create constructs a client for the model id.
func (p *Provider) Create(modelID string) (domain.BackendClient, error) {
	return openaicompat.NewClient(modelID, p.opts...), nil
}

// Priority places OpenAI ahead of the catch-all.
func (p *Provider) Priority() int {
	return 0
}

// proxiedHTTPClient builds an http.Client routed through the proxy URL.
// SOCKS5 proxies dial through x/net/proxy; HTTP proxies use the transport's
// own proxy support.
func proxiedHTTPClient(rawURL string) (*http.Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{}

	switch strings.ToLower(u.Scheme) {
	case "socks5", "socks":
		dialer, dialErr := proxy.FromURL(u, proxy.Direct)
		if dialErr != nil {
			return nil, dialErr
		}
		contextDialer, ok := dialer.(proxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("proxy dialer for %q does not support context dialing", u.Scheme)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			return contextDialer.DialContext(ctx, network, addr)
		}

	case "http", "https":
		transport.Proxy = http.ProxyURL(u)

	default:
		return nil, fmt.Errorf("unsupported proxy scheme: %s", u.Scheme)
	}

	return &http.Client{Transport: transport}, nil
}

// Package dashscope provides the catch-all backend provider, backed by
// DashScope's OpenAI-compatible endpoint. Any model id not claimed by a
// higher-priority provider routes here, which guarantees total coverage.
package dashscope

import (
	"math"
	"time"

	"github.com/openai/openai-go/option"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/provider/openaicompat"
)

// Provider implements domain.BackendProvider for DashScope.
type Provider struct {
	apiKey  string
	baseURL string
	timeout time.Duration
}

// NewProvider creates the DashScope provider. A missing API key is a
// configuration error surfaced immediately rather than on first query.
func NewProvider(cfg Config) (*Provider, error) {
	key := cfg.apiKey()
	if key == "" {
		return nil, domain.NewConfigurationError(
			"DashScope API key is not configured; set DASHSCOPE_API_KEY or AI_DASHSCOPE_API_KEY")
	}

	return &Provider{
		apiKey:  key,
		baseURL: cfg.BaseURL,
		timeout: time.Duration(cfg.Timeout) * time.Second,
	}, nil
}

// Supports always returns true: DashScope is the catch-all.
func (p *Provider) Supports(_ string) bool {
	return true
}

// Create constructs a client for the model id.
func (p *Provider) Create(modelID string) (domain.BackendClient, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(p.apiKey),
		option.WithBaseURL(p.baseURL),
	}
	if p.timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(p.timeout))
	}
	return openaicompat.NewClient(modelID, opts...), nil
}

// Priority places the catch-all last.
func (p *Provider) Priority() int {
	return math.MaxInt
}

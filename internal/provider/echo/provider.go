// Package echo provides a development backend that streams the prompt back
// without making external API calls, giving deterministic responses for
// local testing of the full query pipeline.
package echo

import (
	"context"
	"strings"
	"time"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/observability"
)

const (
	modelID    = "echo"
	chunkDelay = 10 * time.Millisecond
)

// Config controls whether the echo provider is registered.
type Config struct {
	Enabled bool `env:"ECHO_ENABLED" envDefault:"false"`
}

// Provider implements domain.BackendProvider for the echo backend.
type Provider struct{}

// NewProvider creates the echo provider. No configuration is required as
// it operates entirely in-memory.
func NewProvider() *Provider {
	return &Provider{}
}

// Supports claims only the "echo" model id.
func (p *Provider) Supports(id string) bool {
	return id == modelID
}

// Create constructs the echo client.
func (p *Provider) Create(_ string) (domain.BackendClient, error) {
	return &client{}, nil
}

// Priority orders echo after the real providers but before the catch-all.
func (p *Provider) Priority() int {
	return 100
}

type client struct{}

// Stream echoes the user prompt back word by word with a small delay.
func (c *client) Stream(ctx context.Context, prompt domain.Prompt) (<-chan domain.StreamChunk, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("streaming echo request")

	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)

		words := strings.Fields(prompt.User)
		for i, word := range words {
			delta := word
			if i < len(words)-1 {
				delta += " "
			}

			select {
			case <-ctx.Done():
				return
			case chunks <- domain.StreamChunk{Delta: delta}:
				time.Sleep(chunkDelay)
			}
		}
	}()

	return chunks, nil
}

// Complete echoes the user prompt back in one piece.
func (c *client) Complete(_ context.Context, prompt domain.Prompt) (string, error) {
	return "Echo: " + prompt.User, nil
}

// Package openaicompat implements domain.BackendClient over any service
// speaking the OpenAI chat-completions protocol. Both the OpenAI provider
// and the DashScope provider (through its compatible-mode endpoint) build
// their clients from this package.
package openaicompat

import (
	"context"
	"errors"
	"io"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/observability"
)

const defaultTemperature = 0.7

// Client is one model handle bound to one OpenAI-compatible endpoint.
// It is stateless and safe for concurrent use.
type Client struct {
	api   openai.Client
	model string
}

// NewClient creates a client for the given model id.
func NewClient(model string, opts ...option.RequestOption) *Client {
	return &Client{
		api:   openai.NewClient(opts...),
		model: model,
	}
}

// Stream submits the prompt and pumps SDK chunks into a StreamChunk channel.
// The channel closes when the upstream stream ends; SDK failures are wrapped
// into domain.UpstreamError so the orchestrator can classify them by status.
func (c *Client) Stream(ctx context.Context, prompt domain.Prompt) (<-chan domain.StreamChunk, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("starting chat completion stream", observability.String("model", c.model))

	stream := c.api.Chat.Completions.NewStreaming(ctx, c.params(prompt))

	chunks := make(chan domain.StreamChunk)

	go func() {
		defer close(chunks)
		defer func() { _ = stream.Close() }()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}

			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			select {
			case chunks <- domain.StreamChunk{Delta: delta}:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && !errors.Is(err, io.EOF) {
			select {
			case chunks <- domain.StreamChunk{Err: wrapUpstream(err)}:
			case <-ctx.Done():
			}
		}
	}()

	return chunks, nil
}

// Complete submits the prompt and returns the full response text.
func (c *Client) Complete(ctx context.Context, prompt domain.Prompt) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, c.params(prompt))
	if err != nil {
		return "", wrapUpstream(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) params(prompt domain.Prompt) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}
	messages = append(messages, openai.UserMessage(prompt.User))

	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(defaultTemperature),
	}
}

// wrapUpstream lifts SDK errors carrying an HTTP status into the structured
// domain error; everything else passes through for fallback classification.
func wrapUpstream(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Error()
		}
		return &domain.UpstreamError{Status: apiErr.StatusCode, Message: msg}
	}
	return err
}

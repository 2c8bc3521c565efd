package domain

import (
	"context"
	"strings"
	"time"

	"github.com/qiyuey/bookagent/internal/observability"
)

const (
	titlePrompt  = "Generate a minimal title (at most 10 characters) for the following content. Return only the title text:\n"
	titleTimeout = 30 * time.Second
)

// TitleGenerator derives a short thread title from the first question, as a
// best-effort background task decoupled from the query pipeline. Titles are
// generated with the configured default model regardless of which model the
// query itself uses.
type TitleGenerator struct {
	store        SessionStore
	registry     BackendRegistry
	defaultModel string
}

// NewTitleGenerator creates a title generator.
func NewTitleGenerator(store SessionStore, registry BackendRegistry, defaultModel string) *TitleGenerator {
	return &TitleGenerator{
		store:        store,
		registry:     registry,
		defaultModel: defaultModel,
	}
}

// GenerateAsync spawns title generation in the background. Failures are
// logged and never surfaced; the main stream's lifecycle is unaffected.
func (g *TitleGenerator) GenerateAsync(threadID, question, modelID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), titleTimeout)
		defer cancel()

		if err := g.Generate(ctx, threadID, question, modelID); err != nil {
			observability.FromContext(ctx).Error("title generation failed",
				observability.String("thread_id", threadID),
				observability.Error(err))
		}
	}()
}

// Generate derives and stores a title for the thread. It is a no-op when the
// thread already carries a title other than the default placeholder.
func (g *TitleGenerator) Generate(ctx context.Context, threadID, question, modelID string) error {
	thread, err := g.store.Thread(ctx, threadID)
	if err != nil {
		return err
	}
	if thread != nil && thread.Title != "" && thread.Title != DefaultThreadTitle {
		return nil
	}

	client, err := g.registry.Resolve(g.defaultModel)
	if err != nil {
		return err
	}

	raw, err := client.Complete(ctx, Prompt{User: titlePrompt + question})
	if err != nil {
		return err
	}

	title := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
	if title == "" {
		return nil
	}

	return g.store.UpdateThread(ctx, threadID, ThreadPatch{Title: &title, ModelID: &modelID})
}

package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/qiyuey/bookagent/internal/observability"
)

// DefaultQueryTimeout bounds one full query pipeline, measured from pipeline
// start rather than from first byte.
const DefaultQueryTimeout = 3 * time.Minute

// Orchestrator is the top-level entry point for one query: it records the
// conversation, resolves a backend client, streams the answer back as
// ResponseEvents, and persists the aggregated result.
type Orchestrator struct {
	registry BackendRegistry
	store    SessionStore
	titles   *TitleGenerator
	timeout  time.Duration
}

// NewOrchestrator creates an orchestrator. A non-positive timeout falls back
// to DefaultQueryTimeout.
func NewOrchestrator(
	registry BackendRegistry,
	store SessionStore,
	titles *TitleGenerator,
	timeout time.Duration,
) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Orchestrator{
		registry: registry,
		store:    store,
		titles:   titles,
		timeout:  timeout,
	}
}

// ExecuteQuery runs one query and returns its event sequence. The sequence
// is finite and single-shot: START is always first, PROGRESS events preserve
// backend delta order, and the channel closes after either normal completion
// or exactly one terminal ERROR event. Failures are never re-raised to the
// caller.
func (o *Orchestrator) ExecuteQuery(ctx context.Context, req QueryRequest) <-chan ResponseEvent {
	logger := observability.FromContext(ctx)

	// Record the user message and refresh thread metadata before any backend
	// work, independent of the call outcome. Store failures degrade to a
	// live-only stream rather than failing the query.
	var patch ThreadPatch
	if req.ModelID != "" {
		patch.ModelID = &req.ModelID
	}
	if req.BookName != "" {
		patch.BookName = &req.BookName
	}
	if err := o.store.UpdateThread(ctx, req.ThreadID, patch); err != nil {
		logger.Warn("failed to refresh thread metadata", observability.Error(err))
	}
	if err := o.store.AddMessage(ctx, req.ThreadID, RoleUser, req.Question); err != nil {
		logger.Warn("failed to record user message", observability.Error(err))
	}

	if o.titles != nil {
		o.titles.GenerateAsync(req.ThreadID, req.Question, req.ModelID)
	}

	events := make(chan ResponseEvent, 1)
	events <- startEvent(req)

	go o.run(ctx, req, events)

	return events
}

func startEvent(req QueryRequest) ResponseEvent {
	label := "Interpreting"
	if req.Mode == ModeChat {
		label = "Answering"
	}
	bookInfo := ""
	if req.BookName != "" {
		bookInfo = fmt.Sprintf(" [%s]", req.BookName)
	}
	return ResponseEvent{
		Status:  StatusStart,
		Content: fmt.Sprintf("%s%s... (model: %s)", label, bookInfo, req.ModelID),
	}
}

// run executes the backend portion of the pipeline and closes the event
// channel when done. The whole resolve-and-stream path shares one deadline.
func (o *Orchestrator) run(parent context.Context, req QueryRequest, events chan<- ResponseEvent) {
	defer close(events)

	logger := observability.FromContext(parent)

	ctx, cancel := context.WithTimeout(parent, o.timeout)
	defer cancel()

	client, err := o.registry.Resolve(req.ModelID)
	if err != nil {
		logger.Error("backend resolution failed",
			observability.String("model", req.ModelID),
			observability.Error(err))
		events <- ResponseEvent{Status: StatusError, Content: UserFacingMessage(err)}
		return
	}

	prompt := BuildPrompt(req.Question, req.BookName, req.Mode)

	chunks, err := client.Stream(ctx, prompt)
	if err != nil {
		logger.Error("backend stream failed to start", observability.Error(err))
		events <- ResponseEvent{Status: StatusError, Content: UserFacingMessage(err)}
		return
	}

	var answer strings.Builder
	sawDelta := false

	for {
		select {
		case <-ctx.Done():
			logger.Warn("query pipeline aborted", observability.Error(ctx.Err()))
			events <- ResponseEvent{Status: StatusError, Content: UserFacingMessage(ctx.Err())}
			return

		case chunk, ok := <-chunks:
			if !ok {
				// Backends close their channel on cancellation too, and a
				// select with both cases ready may land here first. A closed
				// channel only counts as clean completion while the deadline
				// has not fired; otherwise the partial aggregate is dropped.
				if err := ctx.Err(); err != nil {
					logger.Warn("query pipeline aborted", observability.Error(err))
					events <- ResponseEvent{Status: StatusError, Content: UserFacingMessage(err)}
					return
				}
				o.persistAnswer(parent, req.ThreadID, answer.String())
				return
			}

			if chunk.Err != nil {
				logger.Error("backend stream error", observability.Error(chunk.Err))
				events <- ResponseEvent{Status: StatusError, Content: UserFacingMessage(chunk.Err)}
				return
			}

			switch {
			case chunk.Delta != "":
				sawDelta = true
				answer.WriteString(chunk.Delta)
				events <- ResponseEvent{Status: StatusProgress, Content: chunk.Delta}

			case chunk.Final != "":
				// A full-message echo after streamed deltas would render the
				// same content twice; once any delta has been seen, the
				// aggregate is suppressed.
				if sawDelta {
					continue
				}
				answer.WriteString(chunk.Final)
				events <- ResponseEvent{Status: StatusProgress, Content: chunk.Final}
			}
		}
	}
}

func (o *Orchestrator) persistAnswer(ctx context.Context, threadID, text string) {
	if text == "" {
		return
	}
	if err := o.store.AddMessage(ctx, threadID, RoleAssistant, text); err != nil {
		observability.FromContext(ctx).Warn("failed to record assistant message",
			observability.String("thread_id", threadID),
			observability.Error(err))
	}
}

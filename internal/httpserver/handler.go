package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/qiyuey/bookagent/internal/config"
	"github.com/qiyuey/bookagent/internal/domain"
	"github.com/qiyuey/bookagent/internal/observability"
)

// maxQuestionLength caps the question size in runes. Tiered pricing on the
// default backend favours inputs under 32K tokens; 20000 characters plus the
// system prompt stays safely inside that.
const maxQuestionLength = 20000

// QueryService executes one streaming query. Implemented by
// domain.Orchestrator.
type QueryService interface {
	ExecuteQuery(ctx context.Context, req domain.QueryRequest) <-chan domain.ResponseEvent
}

// Handler handles HTTP requests.
type Handler struct {
	queries QueryService
	store   domain.SessionStore
	models  *config.ModelsConfig
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(queries QueryService, store domain.SessionStore, models *config.ModelsConfig) *Handler {
	return &Handler{
		queries: queries,
		store:   store,
		models:  models,
	}
}

type askRequest struct {
	Question string `json:"question"`
	BookName string `json:"bookName"`
	ThreadID string `json:"threadId"`
	ModelID  string `json:"modelId"`
	Mode     string `json:"mode"`
}

type modelsResponse struct {
	Models       []domain.ModelDescriptor `json:"models"`
	DefaultModel string                   `json:"defaultModel"`
}

// HandleAsk processes one streaming query and pushes its events over SSE.
func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.Question == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)

	// Truncate oversized questions instead of rejecting them.
	if runes := []rune(req.Question); len(runes) > maxQuestionLength {
		logger.Warn("question exceeds length limit, truncating",
			observability.Int("length", len(runes)),
			observability.Int("limit", maxQuestionLength))
		req.Question = string(runes[:maxQuestionLength]) + "...(content truncated)"
	}

	// Fill defaults.
	if req.Mode == "" {
		req.Mode = domain.ModeInterpret
	}
	if req.ThreadID == "" {
		req.ThreadID = uuid.New().String()
	}
	if req.ModelID == "" {
		req.ModelID = h.models.DefaultModel
	}

	ctx = observability.WithModel(ctx, req.ModelID)
	ctx = observability.WithThreadID(ctx, req.ThreadID)

	logger = observability.FromContext(ctx)
	logger.Info("query request received",
		observability.String("mode", req.Mode),
		observability.Bool("has_book", req.BookName != ""))

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := h.queries.ExecuteQuery(ctx, domain.QueryRequest{
		Question: req.Question,
		BookName: req.BookName,
		ThreadID: req.ThreadID,
		ModelID:  req.ModelID,
		Mode:     req.Mode,
	})

	// Drain the event sequence even if the client is gone; the orchestrator
	// closes it promptly once its context is cancelled.
	for event := range events {
		data, _ := json.Marshal(event)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Status, data)
		flusher.Flush()
	}

	logger.Info("query stream completed")
}

// HandleModels returns the static model catalogue.
func (h *Handler) HandleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, modelsResponse{
		Models:       h.models.Available,
		DefaultModel: h.models.DefaultModel,
	})
}

// HandleThreads lists all threads, most recently updated first.
func (h *Handler) HandleThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.store.AllThreads(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to list threads", observability.Error(err))
		http.Error(w, "failed to list threads", http.StatusInternalServerError)
		return
	}
	writeJSON(w, threads)
}

// HandleDeleteThread removes thread metadata.
func (h *Handler) HandleDeleteThread(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "thread id is required", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteThread(r.Context(), id); err != nil {
		observability.FromContext(r.Context()).Error("failed to delete thread", observability.Error(err))
		http.Error(w, "failed to delete thread", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleThreadMessages returns a thread's full history in append order.
func (h *Handler) HandleThreadMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "thread id is required", http.StatusBadRequest)
		return
	}

	messages, err := h.store.Messages(r.Context(), id)
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to load messages", observability.Error(err))
		http.Error(w, "failed to load messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, messages)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers already written, nothing left to do.
		return
	}
}

package domain

import "context"

// BackendClient is a handle to one concrete model of one backend service.
// Clients are stateless and safe for concurrent use; the registry owns them
// and shares one instance per model id.
type BackendClient interface {
	// Stream submits a prompt and returns the backend's output as a
	// sequence of chunks. The channel is closed when the stream ends.
	Stream(ctx context.Context, prompt Prompt) (<-chan StreamChunk, error)

	// Complete submits a prompt and returns the full response text.
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// BackendProvider decides whether it can serve a model id and constructs
// clients for it. Exactly one registered provider must be a catch-all
// (Supports always true) at the maximum priority value.
type BackendProvider interface {
	// Supports reports whether this provider can serve the model id.
	Supports(modelID string) bool

	// Create constructs a client for the model id.
	Create(modelID string) (BackendClient, error)

	// Priority orders providers; lower values are consulted first.
	Priority() int
}

// BackendRegistry resolves a model id to a cached backend client.
type BackendRegistry interface {
	Resolve(modelID string) (BackendClient, error)
}

// SessionStore is the durable conversation state: thread metadata plus one
// ordered message list per thread. Single-key operations are serialized by
// the store itself; AddMessage's append and metadata bump are two separate
// operations and are not transactional.
type SessionStore interface {
	// AllThreads returns all threads sorted by UpdatedAt descending.
	AllThreads(ctx context.Context) ([]Thread, error)

	// Thread returns the thread with the given id, or nil if absent.
	Thread(ctx context.Context, id string) (*Thread, error)

	// UpdateThread upserts thread metadata. Absent threads are created with
	// the default title; present threads are merged field-by-field from the
	// patch. UpdatedAt is always refreshed.
	UpdateThread(ctx context.Context, id string, patch ThreadPatch) error

	// DeleteThread removes thread metadata. The message list keyed by the
	// same id is intentionally left in place.
	DeleteThread(ctx context.Context, id string) error

	// AddMessage appends to the thread's message list, then bumps the
	// thread's UpdatedAt via a bare UpdateThread.
	AddMessage(ctx context.Context, threadID, role, content string) error

	// Messages returns the full history of a thread in append order.
	Messages(ctx context.Context, threadID string) ([]Message, error)
}

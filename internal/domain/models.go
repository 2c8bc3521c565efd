package domain

// ModelDescriptor describes one selectable model. The catalogue is loaded
// from configuration at startup and never mutated afterwards.
type ModelDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Thread is the persisted metadata of one conversation session.
type Thread struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	UpdatedAt int64  `json:"updatedAt"` // unix milliseconds, never decreases
	ModelID   string `json:"modelId"`
	BookName  string `json:"bookName"`
}

// DefaultThreadTitle is assigned to threads created without an explicit title.
const DefaultThreadTitle = "New Chat"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single persisted conversation entry. Messages are immutable
// once appended; their order is the append order within a thread.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

// ThreadPatch carries optional field updates for UpdateThread. Nil fields are
// left untouched; UpdatedAt is refreshed regardless.
type ThreadPatch struct {
	Title    *string
	ModelID  *string
	BookName *string
}

// EventStatus labels a ResponseEvent in the output sequence.
type EventStatus string

const (
	StatusStart    EventStatus = "START"
	StatusProgress EventStatus = "PROGRESS"
	StatusResult   EventStatus = "RESULT"
	StatusError    EventStatus = "ERROR"
	StatusDebug    EventStatus = "DEBUG"
)

// ResponseEvent is one element of the push-delivered answer sequence.
// Events are never persisted; only aggregated PROGRESS content is stored
// as an assistant Message.
type ResponseEvent struct {
	Status  EventStatus `json:"status"`
	Content string      `json:"content"`
}

// QueryRequest is one query against the assistant, already validated and
// defaulted by the transport layer.
type QueryRequest struct {
	Question string
	BookName string
	ThreadID string
	ModelID  string
	Mode     string
}

// Query modes.
const (
	ModeInterpret = "interpret"
	ModeChat      = "chat"
)

// Prompt is the outbound request to a backend client.
type Prompt struct {
	System string
	User   string
}

// StreamChunk is one unit of backend output. Either Delta carries an
// incremental text fragment, or Final carries the complete message text,
// or Err reports a stream failure. The channel is closed after the last
// chunk.
type StreamChunk struct {
	Delta string
	Final string
	Err   error
}

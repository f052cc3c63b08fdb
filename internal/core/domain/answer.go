package domain

// ChatRole identifies the author of a chat message
type ChatRole string

const (
	RoleSystem ChatRole = "system"
	RoleUser   ChatRole = "user"
)

// ChatMessage is one turn handed to the generative model
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// AnswerEventType identifies the kind of event in an answer stream
type AnswerEventType string

const (
	// EventContext carries the ranked retrieval results, sent once
	// before any generation output
	EventContext AnswerEventType = "context"
	// EventToken carries one incremental text fragment
	EventToken AnswerEventType = "token"
	// EventDone carries the full concatenated answer and terminates
	// the stream
	EventDone AnswerEventType = "done"
)

// AnswerEvent is one element of the answer stream. Exactly one of the
// payload fields is meaningful, selected by Type.
type AnswerEvent struct {
	Type     AnswerEventType
	Snippets []Snippet // EventContext
	Token    string    // EventToken
	Text     string    // EventDone
}

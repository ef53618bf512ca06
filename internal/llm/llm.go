package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

// Completer is the text-completion capability behind frame generation and
// refinement. Implementations return the raw generated text, or an error when
// the backing service responds with a non-success status.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

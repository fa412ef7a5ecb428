package ports

import "context"

// CompletionPurpose tells a generator which response shape the prompt asks for
type CompletionPurpose string

const (
	PurposeOutline CompletionPurpose = "outline"
	PurposeContent CompletionPurpose = "content"
)

// CompletionRequest is a single-turn chat completion
type CompletionRequest struct {
	Purpose     CompletionPurpose
	Prompt      string
	MaxTokens   int
	Temperature float32

	// Hints carry the structured inputs behind Prompt (topic, slide_count, title,
	// description, format). Live generators ignore them.
	Hints map[string]string
}

// TextGenerator produces the first choice's message content for a prompt.
// Implementations make exactly one attempt per call.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

package contracts

import "context"

// IChatAIProvider is the opaque text-completion boundary used by the review
// agents: given a system prompt and user input, produce a completion. Calls
// may fail or time out; callers own the degraded-result handling.
type IChatAIProvider interface {
	ChatCompletionRequest(ctx context.Context, userInput string, prompt string) (string, error)
}

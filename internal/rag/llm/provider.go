package llm

import "context"

// Provider completes an already-composed prompt. Prompt assembly lives with
// the callers (answer assembler, summarizer), not with the model client.
type Provider interface {
	Complete(ctx context.Context, systemInstruction string, prompt string) (string, error)
}

package llm

import "context"

// Provider is a black-box text-in/text-out generation model. The summarizer
// consumes it without caring about the backing service.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

package core

import "context"

// TextGenerator is any service that can turn a prompt into prose.
// Failures downgrade gracefully: callers proceed with their numeric results
// and substitute a placeholder for the generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, systemContext string) (string, error)
}

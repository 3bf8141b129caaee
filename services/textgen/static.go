package llmsvc

import (
	"context"

	"github.com/edusight/backend/core"
)

type staticService struct {
	text string
}

var _ core.TextGenerator = (*staticService)(nil)

// NewStaticService returns the same canned text for every prompt. Used in
// dev and tests when no LLM backend is configured.
func NewStaticService(text string) *staticService {
	return &staticService{text: text}
}

func (svc *staticService) Generate(ctx context.Context, prompt, systemContext string) (string, error) {
	return svc.text, nil
}

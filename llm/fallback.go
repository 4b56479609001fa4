package llm

import (
	"context"
	"errors"
)

// Fallback tries primary first; if it returns an error, tries secondary.
type Fallback struct {
	Primary   Client
	Secondary Client
}

// Complete calls Primary.Complete; on any error, calls Secondary.Complete.
// When both fail the errors are joined.
func (f *Fallback) Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error) {
	s, err := f.Primary.Complete(ctx, model, systemPrompt, userMessage)
	if err != nil && f.Secondary != nil {
		s2, err2 := f.Secondary.Complete(ctx, model, systemPrompt, userMessage)
		if err2 != nil {
			return "", errors.Join(err, err2)
		}
		return s2, nil
	}
	return s, err
}

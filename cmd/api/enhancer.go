package main

import (
	"context"

	"creativestudio/internal/domain"
	"creativestudio/internal/providers/genai"
)

// unavailableEnhancer answers when no shared key is configured, so the
// handler returns its usual failure body.
type unavailableEnhancer struct{}

func (unavailableEnhancer) Enhance(context.Context, string, domain.Style) (string, error) {
	return "", genai.ErrNotConfigured
}

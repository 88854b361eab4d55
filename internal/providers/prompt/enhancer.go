package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
	"creativestudio/internal/providers/genai"
)

// DefaultEnhanceModel is the text model used for prompt enhancement.
const DefaultEnhanceModel = "gemini-2.0-flash-exp"

var ErrEmptyPrompt = errors.New("prompt: prompt is required")

type Options struct {
	Generator genai.Generator
	Model     string
	Logger    *infra.Logger
}

// Enhancer rewrites short prompts into detailed, style-specific ones.
type Enhancer struct {
	gen    genai.Generator
	model  string
	logger zerolog.Logger
}

func NewEnhancer(opts Options) (*Enhancer, error) {
	if opts.Generator == nil {
		return nil, errors.New("prompt: generator is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultEnhanceModel
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Enhancer{gen: opts.Generator, model: model, logger: logger}, nil
}

// Enhance returns the enhanced prompt. An empty model answer yields the
// input prompt unchanged.
func (e *Enhancer) Enhance(ctx context.Context, prompt string, style domain.Style) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	resp, err := e.gen.Generate(ctx, genai.TextRequest(e.model, BuildEnhanceContents(prompt, style)))
	if err != nil {
		e.logger.Warn().Err(err).Str("style", string(style)).Msg("prompt: enhancement failed")
		return "", err
	}
	if text := strings.TrimSpace(resp.Text); text != "" {
		return text, nil
	}
	return prompt, nil
}

// BuildEnhanceContents joins the style instruction and the user prompt.
func BuildEnhanceContents(prompt string, style domain.Style) string {
	return StylePrompt(style) + "\n\nUser prompt: " + prompt
}

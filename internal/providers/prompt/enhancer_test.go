package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"creativestudio/internal/domain"
	"creativestudio/internal/providers/genai"
)

type generatorFunc func(ctx context.Context, req genai.Request) (*genai.Response, error)

func (f generatorFunc) Generate(ctx context.Context, req genai.Request) (*genai.Response, error) {
	return f(ctx, req)
}

func TestEnhancerSendsStyleInstruction(t *testing.T) {
	var got genai.Request
	enhancer, err := NewEnhancer(Options{Generator: generatorFunc(func(ctx context.Context, req genai.Request) (*genai.Response, error) {
		got = req
		return &genai.Response{Text: "  a cinematic red bicycle  "}, nil
	})})
	if err != nil {
		t.Fatalf("NewEnhancer returned error: %v", err)
	}

	out, err := enhancer.Enhance(context.Background(), "red bicycle", domain.StyleCinematic)
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out != "a cinematic red bicycle" {
		t.Fatalf("Enhance = %q", out)
	}
	if got.Model != DefaultEnhanceModel {
		t.Fatalf("model = %q, want %q", got.Model, DefaultEnhanceModel)
	}
	if !strings.HasPrefix(got.Content.Text, StylePrompts[domain.StyleCinematic]) || !strings.HasSuffix(got.Content.Text, "\n\nUser prompt: red bicycle") {
		t.Fatalf("contents = %q", got.Content.Text)
	}
	if len(got.Config.ResponseModalities) != 1 || got.Config.ResponseModalities[0] != genai.ModalityText {
		t.Fatalf("modalities = %v", got.Config.ResponseModalities)
	}
}

func TestEnhancerEmptyAnswerKeepsPrompt(t *testing.T) {
	enhancer, _ := NewEnhancer(Options{Generator: generatorFunc(func(ctx context.Context, req genai.Request) (*genai.Response, error) {
		return &genai.Response{}, nil
	})})
	out, err := enhancer.Enhance(context.Background(), "a cat", domain.StyleAnime)
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if out != "a cat" {
		t.Fatalf("Enhance = %q, want original prompt", out)
	}
}

func TestEnhancerErrors(t *testing.T) {
	boom := errors.New("boom")
	enhancer, _ := NewEnhancer(Options{Generator: generatorFunc(func(ctx context.Context, req genai.Request) (*genai.Response, error) {
		return nil, boom
	})})
	if _, err := enhancer.Enhance(context.Background(), "a cat", ""); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := enhancer.Enhance(context.Background(), "  ", ""); !errors.Is(err, ErrEmptyPrompt) {
		t.Fatalf("err = %v, want ErrEmptyPrompt", err)
	}
	if _, err := NewEnhancer(Options{}); err == nil {
		t.Fatal("expected error without generator")
	}
}

func TestStylePromptDefaultsToPhotorealistic(t *testing.T) {
	if StylePrompt("watercolor") != StylePrompts[domain.StylePhotorealistic] {
		t.Fatal("unknown style should use the photorealistic instruction")
	}
	for _, style := range domain.Styles {
		if _, ok := StylePrompts[style]; !ok {
			t.Errorf("missing instruction for style %q", style)
		}
	}
}

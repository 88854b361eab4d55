package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	sdk "google.golang.org/genai"

	"creativestudio/internal/domain"
	"creativestudio/internal/infra"
)

// Generator performs one generation call.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// GeneratorFactory builds a Generator bound to a specific API key.
type GeneratorFactory func(ctx context.Context, apiKey string) (Generator, error)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client is the Generator backed by the Gemini API.
type Client struct {
	models *sdk.Models
	logger zerolog.Logger
}

var ErrMissingAPIKey = errors.New("genai: api key is required")

// NewClient constructs a Gemini client. A nil HTTP client gets one with a
// generous timeout; image generation at 4K can take minutes.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	cfg := &sdk.ClientConfig{
		APIKey:     apiKey,
		Backend:    sdk.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimRight(opts.BaseURL, "/"); base != "" {
		cfg.HTTPOptions = sdk.HTTPOptions{BaseURL: base + "/"}
	}
	client, err := sdk.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{models: client.Models, logger: logger}, nil
}

// Factory returns a GeneratorFactory producing clients that share opts
// except for the key.
func Factory(opts Options) GeneratorFactory {
	return func(ctx context.Context, apiKey string) (Generator, error) {
		o := opts
		o.APIKey = apiKey
		client, err := NewClient(ctx, o)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

func (c *Client) Generate(ctx context.Context, req Request) (*Response, error) {
	contents, err := toSDKContents(req.Content)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, req.Model, contents, toSDKConfig(req.Config))
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("model", req.Model).
			Dur("elapsed", time.Since(start)).
			Msg("genai: generate content failed")
		return nil, err
	}
	out := fromSDKResponse(resp)
	c.logger.Debug().
		Str("model", req.Model).
		Int("parts", len(out.Parts)).
		Dur("elapsed", time.Since(start)).
		Msg("genai: generate content")
	return out, nil
}

func toSDKContents(content Content) ([]*sdk.Content, error) {
	if content.IsTextOnly() {
		return sdk.Text(content.Text), nil
	}
	parts := make([]*sdk.Part, 0, len(content.Parts))
	for _, p := range content.Parts {
		if p.InlineData == nil {
			parts = append(parts, sdk.NewPartFromText(p.Text))
			continue
		}
		data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return nil, fmt.Errorf("genai: decode inline image: %w", err)
		}
		parts = append(parts, sdk.NewPartFromBytes(data, p.InlineData.MimeType))
	}
	return []*sdk.Content{sdk.NewContentFromParts(parts, sdk.RoleUser)}, nil
}

func toSDKConfig(cfg Config) *sdk.GenerateContentConfig {
	out := &sdk.GenerateContentConfig{
		ResponseModalities: cfg.ResponseModalities,
		MaxOutputTokens:    cfg.MaxOutputTokens,
	}
	if cfg.ImageConfig != nil {
		out.ImageConfig = &sdk.ImageConfig{
			AspectRatio: string(cfg.ImageConfig.AspectRatio),
			ImageSize:   string(cfg.ImageConfig.ImageSize),
		}
	}
	for _, tool := range cfg.Tools {
		if tool.GoogleSearch != nil {
			out.Tools = append(out.Tools, &sdk.Tool{GoogleSearch: &sdk.GoogleSearch{}})
		}
	}
	return out
}

// fromSDKResponse flattens the first candidate into tagged parts, keeping
// their order. A part carrying a thought signature yields a continuity
// token after its payload.
func fromSDKResponse(resp *sdk.GenerateContentResponse) *Response {
	out := &Response{}
	if resp == nil {
		return out
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if p == nil {
				continue
			}
			if p.Text != "" {
				out.Parts = append(out.Parts, ResponsePart{Kind: PartText, Text: p.Text})
			}
			if p.InlineData != nil && len(p.InlineData.Data) > 0 {
				out.Parts = append(out.Parts, ResponsePart{
					Kind: PartInlineImage,
					Image: &domain.InlineImage{
						MimeType: p.InlineData.MIMEType,
						Data:     base64.StdEncoding.EncodeToString(p.InlineData.Data),
					},
				})
			}
			if len(p.ThoughtSignature) > 0 {
				out.Parts = append(out.Parts, ResponsePart{
					Kind: PartContinuityToken,
					Text: base64.StdEncoding.EncodeToString(p.ThoughtSignature),
				})
			}
		}
	}
	out.Text = resp.Text()
	return out
}

var _ Generator = (*Client)(nil)

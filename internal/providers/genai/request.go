package genai

import (
	"encoding/json"
	"strings"

	"creativestudio/internal/domain"
)

const (
	// DefaultImageModel is used when no image model is configured.
	DefaultImageModel = "gemini-3-pro-image-preview"
	// PingModel backs key validation; the cheapest text model is enough.
	PingModel = "gemini-1.5-flash"

	defaultAspectRatio = domain.Aspect1x1
	defaultImageSize   = domain.ImageSize1K

	ModalityText = "TEXT"
)

// Part is one element of a multimodal request. Exactly one field is set.
type Part struct {
	Text       string
	InlineData *domain.InlineImage
}

func (p Part) MarshalJSON() ([]byte, error) {
	if p.InlineData != nil {
		return json.Marshal(struct {
			InlineData *domain.InlineImage `json:"inlineData"`
		}{p.InlineData})
	}
	return json.Marshal(struct {
		Text string `json:"text"`
	}{p.Text})
}

// Content is either a bare prompt string or an ordered list of parts.
type Content struct {
	Text  string
	Parts []Part
}

// TextContent builds the text-only shape.
func TextContent(text string) Content {
	return Content{Text: text}
}

// IsTextOnly reports whether the content serializes as a bare string.
func (c Content) IsTextOnly() bool {
	return c.Parts == nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsTextOnly() {
		return json.Marshal(c.Text)
	}
	return json.Marshal(c.Parts)
}

type ImageConfig struct {
	AspectRatio domain.AspectRatio `json:"aspectRatio"`
	ImageSize   domain.ImageSize   `json:"imageSize"`
}

type GoogleSearch struct{}

type Tool struct {
	GoogleSearch *GoogleSearch `json:"googleSearch,omitempty"`
}

type Config struct {
	ImageConfig        *ImageConfig `json:"imageConfig,omitempty"`
	Tools              []Tool       `json:"tools,omitempty"`
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	MaxOutputTokens    int32        `json:"maxOutputTokens,omitempty"`
}

// Request is the provider-agnostic generation request.
type Request struct {
	Model   string  `json:"model"`
	Content Content `json:"contents"`
	Config  Config  `json:"config"`
}

// Build assembles an image generation request. It has no side effects: the
// same inputs always produce the same request.
func Build(model, prompt string, image *domain.InlineImage, settings domain.GenerationSettings, isHD bool) Request {
	if strings.TrimSpace(model) == "" {
		model = DefaultImageModel
	}

	content := TextContent(prompt)
	if image != nil {
		content = Content{Parts: []Part{{Text: prompt}, {InlineData: image}}}
	}

	aspect := settings.AspectRatio
	if aspect == "" {
		aspect = defaultAspectRatio
	}
	size := settings.ImageSize
	if size == "" {
		size = defaultImageSize
	}
	if isHD {
		size = domain.ImageSizeHD
	}

	cfg := Config{ImageConfig: &ImageConfig{AspectRatio: aspect, ImageSize: size}}
	if settings.UseGoogleSearch {
		cfg.Tools = []Tool{{GoogleSearch: &GoogleSearch{}}}
	}

	return Request{Model: model, Content: content, Config: cfg}
}

// TextRequest builds a text-in, text-out request.
func TextRequest(model, text string) Request {
	return Request{
		Model:   model,
		Content: TextContent(text),
		Config:  Config{ResponseModalities: []string{ModalityText}},
	}
}

// PingRequest is the minimal-cost call used to check that a key works.
func PingRequest() Request {
	req := TextRequest(PingModel, "ping")
	req.Config.MaxOutputTokens = 1
	return req
}

// PartKind tags the variants of a response part.
type PartKind int

const (
	PartText PartKind = iota + 1
	PartInlineImage
	PartContinuityToken
)

// ResponsePart is one decoded response part. Text holds the text or the
// continuity token depending on Kind; Image is set for inline images.
type ResponsePart struct {
	Kind  PartKind
	Text  string
	Image *domain.InlineImage
}

// Response is the ordered list of parts plus the provider's aggregate text.
type Response struct {
	Parts []ResponsePart
	Text  string
}

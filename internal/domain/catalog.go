package domain

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// AspectDimensions maps each aspect ratio to its 1K pixel size.
var AspectDimensions = map[AspectRatio]Dimensions{
	Aspect1x1:  {Width: 1024, Height: 1024},
	Aspect16x9: {Width: 1344, Height: 768},
	Aspect9x16: {Width: 768, Height: 1344},
	Aspect4x3:  {Width: 1152, Height: 896},
	Aspect4x5:  {Width: 896, Height: 1120},
	Aspect3x4:  {Width: 896, Height: 1152},
}

var SizeMultipliers = map[ImageSize]float64{
	ImageSize1K: 1,
	ImageSize2K: 1.5,
	ImageSize4K: 2,
}

// PixelDimensions returns the expected output size for an aspect ratio and
// tier. Unknown values fall back to 1:1 and 1K.
func PixelDimensions(aspect AspectRatio, size ImageSize) Dimensions {
	base, ok := AspectDimensions[aspect]
	if !ok {
		base = AspectDimensions[Aspect1x1]
	}
	mult, ok := SizeMultipliers[size]
	if !ok {
		mult = 1
	}
	return Dimensions{
		Width:  int(math.Round(float64(base.Width) * mult)),
		Height: int(math.Round(float64(base.Height) * mult)),
	}
}

type ExportPreset struct {
	Name     string       `json:"name"`
	Platform string       `json:"platform"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Format   OutputFormat `json:"format"`
	Quality  int          `json:"quality"`
}

var ExportPresets = []ExportPreset{
	{Name: "Instagram Post", Platform: "instagram", Width: 1080, Height: 1080, Format: FormatJPG, Quality: 90},
	{Name: "Instagram Story", Platform: "instagram", Width: 1080, Height: 1920, Format: FormatJPG, Quality: 90},
	{Name: "LinkedIn Post", Platform: "linkedin", Width: 1200, Height: 627, Format: FormatPNG, Quality: 95},
	{Name: "Twitter/X Post", Platform: "twitter", Width: 1600, Height: 900, Format: FormatPNG, Quality: 90},
	{Name: "16:9 Slide", Platform: "presentation", Width: 1920, Height: 1080, Format: FormatPNG, Quality: 95},
	{Name: "YouTube Thumbnail", Platform: "youtube", Width: 1280, Height: 720, Format: FormatJPG, Quality: 90},
}

type QuickPreset struct {
	ID               PresetType  `json:"id"`
	Name             string      `json:"name"`
	Icon             string      `json:"icon"`
	AspectRatio      AspectRatio `json:"aspectRatio"`
	Style            Style       `json:"style"`
	SuggestedPrompts []string    `json:"suggestedPrompts"`
}

var QuickPresets = []QuickPreset{
	{
		ID:          PresetEcommerce,
		Name:        "E-commerce",
		Icon:        "shopping-bag",
		AspectRatio: Aspect1x1,
		Style:       StyleProductPhoto,
		SuggestedPrompts: []string{
			"Remove background, add soft shadow",
			"Place product on marble surface",
			"Add lifestyle context background",
		},
	},
	{
		ID:               PresetSocial,
		Name:             "Social Post",
		Icon:             "share",
		AspectRatio:      Aspect1x1,
		Style:            StyleCinematic,
		SuggestedPrompts: []string{"Add vibrant color grading", "Apply vintage film look", "Enhance with subtle vignette"},
	},
	{
		ID:               PresetPoster,
		Name:             "Poster",
		Icon:             "layout",
		AspectRatio:      Aspect4x5,
		Style:            StyleArtistic,
		SuggestedPrompts: []string{"Add dramatic lighting", "Create movie poster style", "Apply bold typography space"},
	},
	{
		ID:               PresetAvatar,
		Name:             "Avatar",
		Icon:             "user",
		AspectRatio:      Aspect1x1,
		Style:            StylePhotorealistic,
		SuggestedPrompts: []string{"Professional headshot lighting", "Blur background, focus face", "Add studio backdrop"},
	},
}

// Label renders the style tag for display, e.g. "product-photo" -> "Product Photo".
func (s Style) Label() string {
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "-", " "))
}

package domain

// Style is the visual style tag used to pick an enhancement template.
type Style string

const (
	StylePhotorealistic Style = "photorealistic"
	StyleCinematic      Style = "cinematic"
	StyleArtistic       Style = "artistic"
	StyleAnime          Style = "anime"
	StyleSketch         Style = "sketch"
	Style3DRender       Style = "3d-render"
	StyleFlat           Style = "flat"
	StyleProductPhoto   Style = "product-photo"
)

// Styles lists every supported style in display order.
var Styles = []Style{
	StylePhotorealistic,
	StyleCinematic,
	StyleArtistic,
	StyleAnime,
	StyleSketch,
	Style3DRender,
	StyleFlat,
	StyleProductPhoto,
}

type AspectRatio string

const (
	Aspect1x1  AspectRatio = "1:1"
	Aspect16x9 AspectRatio = "16:9"
	Aspect9x16 AspectRatio = "9:16"
	Aspect4x3  AspectRatio = "4:3"
	Aspect4x5  AspectRatio = "4:5"
	Aspect3x4  AspectRatio = "3:4"
)

// ImageSize is the resolution tier requested from the model.
type ImageSize string

const (
	ImageSize1K ImageSize = "1K"
	ImageSize2K ImageSize = "2K"
	ImageSize4K ImageSize = "4K"

	// ImageSizeHD is the tier forced by explicit HD requests.
	ImageSizeHD = ImageSize4K
)

type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatJPG  OutputFormat = "jpg"
	FormatWebP OutputFormat = "webp"
)

// ContentType maps an output format to its mime type, defaulting to png.
func (f OutputFormat) ContentType() string {
	switch f {
	case FormatJPG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

type BackgroundMode string

const (
	BackgroundNone    BackgroundMode = "none"
	BackgroundRemove  BackgroundMode = "remove"
	BackgroundReplace BackgroundMode = "replace"
	BackgroundBlur    BackgroundMode = "blur"
)

type PresetType string

const (
	PresetEcommerce PresetType = "ecommerce"
	PresetSocial    PresetType = "social"
	PresetPoster    PresetType = "poster"
	PresetAvatar    PresetType = "avatar"
	PresetCustom    PresetType = "custom"
)

// ImageAdjustments are local pixel adjustments, stored but never applied server side.
type ImageAdjustments struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`
	Sharpness  int `json:"sharpness"`
}

type ColorSwap struct {
	TargetColor  string `json:"targetColor"`
	ReplaceColor string `json:"replaceColor"`
}

// EditTools configures tool operations applied to a source image.
type EditTools struct {
	BackgroundMode    BackgroundMode `json:"backgroundMode,omitempty"`
	BackgroundPrompt  string         `json:"backgroundPrompt,omitempty"`
	InpaintingEnabled bool           `json:"inpaintingEnabled,omitempty"`
	BrushSize         string         `json:"brushSize,omitempty"`
	ColorSwap         *ColorSwap     `json:"colorSwap,omitempty"`
}

// GenerationSettings is passed through the pipeline unchanged except for
// ImageSize, which HD requests force to ImageSizeHD.
type GenerationSettings struct {
	Style           Style             `json:"style,omitempty"`
	AspectRatio     AspectRatio       `json:"aspectRatio,omitempty"`
	ImageSize       ImageSize         `json:"imageSize,omitempty"`
	UseGoogleSearch bool              `json:"useGoogleSearch,omitempty"`
	OutputFormat    OutputFormat      `json:"outputFormat,omitempty"`
	Adjustments     *ImageAdjustments `json:"adjustments,omitempty"`
	EditTools       *EditTools        `json:"editTools,omitempty"`
	Preset          PresetType        `json:"preset,omitempty"`
}

// WithImageSize returns a copy of the settings using the given tier.
func (s GenerationSettings) WithImageSize(size ImageSize) GenerationSettings {
	s.ImageSize = size
	return s
}

package prompt

import "creativestudio/internal/domain"

const styleSuffix = "\nKeep it under 200 words. Output ONLY the enhanced prompt, nothing else."

const styleIntro = "You are an expert prompt engineer for AI image generation.\n"

// StylePrompts holds the system instruction used to enhance a prompt for
// each style.
var StylePrompts = map[domain.Style]string{
	domain.StylePhotorealistic: styleIntro +
		"Transform the user's simple prompt into a detailed, photorealistic image generation prompt.\n" +
		"Include: lighting conditions, camera angle, lens type, time of day, atmospheric details, texture descriptions." + styleSuffix,
	domain.StyleCinematic: styleIntro +
		"Transform the user's simple prompt into a cinematic, movie-quality image generation prompt.\n" +
		"Include: film grain, color grading (teal-orange, etc.), anamorphic lens effects, dramatic lighting, movie scene composition." + styleSuffix,
	domain.StyleFlat: styleIntro +
		"Transform the user's simple prompt into a flat design, minimalist illustration prompt.\n" +
		"Include: solid colors, simple shapes, no shadows, vector-style, clean lines, limited color palette." + styleSuffix,
	domain.StyleProductPhoto: styleIntro +
		"Transform the user's simple prompt into a professional e-commerce product photography prompt.\n" +
		"Include: studio lighting setup, seamless white/gray background, product focus, clean shadows, commercial quality." + styleSuffix,
	domain.StyleArtistic: styleIntro +
		"Transform the user's simple prompt into an artistic, painterly image generation prompt.\n" +
		"Include: art style references (impressionism, expressionism, etc.), brush stroke descriptions, color palette, mood, artistic techniques." + styleSuffix,
	domain.StyleAnime: styleIntro +
		"Transform the user's simple prompt into a detailed anime/manga style image generation prompt.\n" +
		"Include: anime art style specifics, character design elements, background style, color vibrancy, studio references if applicable." + styleSuffix,
	domain.StyleSketch: styleIntro +
		"Transform the user's simple prompt into a detailed sketch/drawing style image generation prompt.\n" +
		"Include: pencil/pen technique, shading style, line weight, paper texture, hatching patterns." + styleSuffix,
	domain.Style3DRender: styleIntro +
		"Transform the user's simple prompt into a detailed 3D render style image generation prompt.\n" +
		"Include: rendering engine style (Octane, Blender, etc.), lighting setup, material properties, reflection/refraction details." + styleSuffix,
}

// StylePrompt returns the instruction for style, defaulting to photorealistic.
func StylePrompt(style domain.Style) string {
	if p, ok := StylePrompts[style]; ok {
		return p
	}
	return StylePrompts[domain.StylePhotorealistic]
}

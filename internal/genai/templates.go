package genai

// DefaultTemplate is used when the caller names no template or an unknown one.
const DefaultTemplate = "default"

// Style templates map a template id to the system instruction sent with an
// image generation call.
var templates = map[string]string{
	"default": `You are an image generation and editing assistant. Follow the user's
prompt precisely. When a base image is provided, treat the prompt as an edit
of that image: preserve its composition and subject unless the prompt asks
otherwise. Always return an image.`,

	"photo": `You are a photorealistic image generator. Render the user's prompt as a
realistic photograph: natural lighting, plausible materials, correct
perspective. When a base image is provided, edit it while keeping it
photographic. Always return an image.`,

	"illustration": `You are a digital illustrator. Render the user's prompt as a clean,
stylized illustration with bold shapes and a coherent palette. When a base
image is provided, redraw or edit it in the same illustrated style. Always
return an image.`,

	"logo": `You are a logo designer. Produce a simple, memorable mark on a plain
background: flat colors, strong silhouette, no photographic detail. When a
base image is provided, refine it as a logo iteration. Always return an
image.`,

	"sketch": `You are a sketch artist. Render the user's prompt as a hand-drawn pencil
or ink sketch with visible strokes and hatching. When a base image is
provided, convert or edit it in sketch style. Always return an image.`,
}

// videoInstruction is the fixed guidance used whenever the video model is
// selected, regardless of the requested template.
const videoInstruction = `You are a video generation assistant. Turn the user's prompt into a short
video clip. When a base image is provided, use it as the opening frame and
animate from it. Keep motion smooth and the subject consistent across frames.`

// SystemInstruction resolves the guidance text for a call. The video model
// always gets the fixed video guidance; otherwise an unknown template id
// falls back to the default template.
func SystemInstruction(template, model string) string {
	if IsVideoModel(model) {
		return videoInstruction
	}
	if text, ok := templates[template]; ok {
		return text
	}
	return templates[DefaultTemplate]
}

// Templates lists the known style template ids.
func Templates() []string {
	ids := make([]string, 0, len(templates))
	for id := range templates {
		ids = append(ids, id)
	}
	return ids
}

package genai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptcanvas/promptcanvas/internal/genai"
)

func TestSystemInstruction_KnownTemplate(t *testing.T) {
	logo := genai.SystemInstruction("logo", "gemini-2.5-flash-image")
	assert.Contains(t, logo, "logo designer")
	assert.NotEqual(t, genai.SystemInstruction(genai.DefaultTemplate, "gemini-2.5-flash-image"), logo)
}

func TestSystemInstruction_UnknownTemplateFallsBack(t *testing.T) {
	def := genai.SystemInstruction(genai.DefaultTemplate, "gemini-2.5-flash-image")
	assert.Equal(t, def, genai.SystemInstruction("no-such-template", "gemini-2.5-flash-image"))
	assert.Equal(t, def, genai.SystemInstruction("", "gemini-2.5-flash-image"))
}

func TestSystemInstruction_VideoModelOverridesTemplate(t *testing.T) {
	got := genai.SystemInstruction("logo", "veo-3.0-generate-001")
	assert.Contains(t, got, "video")
	assert.NotContains(t, got, "logo designer")
}

func TestModelRouting(t *testing.T) {
	assert.True(t, genai.IsVideoModel("veo-3.0-generate-001"))
	assert.False(t, genai.IsVideoModel("gemini-2.5-flash-image"))

	assert.True(t, genai.IsImageModel("gemini-2.5-flash-image"))
	assert.False(t, genai.IsImageModel("gemini-2.5-flash"))
	assert.False(t, genai.IsImageModel("veo-3.0-generate-001"))
}

package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageGenerationInputValidate(t *testing.T) {
	valid := ImageGenerationInput{
		Prompt:      "a lighthouse at dusk",
		AspectRatio: AspectSquare,
		Count:       1,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ImageGenerationInput)
	}{
		{"empty prompt", func(in *ImageGenerationInput) { in.Prompt = "" }},
		{"zero count", func(in *ImageGenerationInput) { in.Count = 0 }},
		{"negative count", func(in *ImageGenerationInput) { in.Count = -2 }},
		{"count above limit", func(in *ImageGenerationInput) { in.Count = MaxImagesPerRequest + 1 }},
		{"unknown aspect ratio", func(in *ImageGenerationInput) { in.AspectRatio = "4:3" }},
		{"empty aspect ratio", func(in *ImageGenerationInput) { in.AspectRatio = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.Error(t, in.Validate())
		})
	}
}

func TestAspectRatioValid(t *testing.T) {
	for _, a := range AspectRatios {
		assert.True(t, a.Valid(), "preset %q should be valid", a)
	}
	assert.False(t, AspectRatio("3:2").Valid())
}

func TestGeneratedImageDataURL(t *testing.T) {
	img := GeneratedImage{Data: []byte{0xff, 0xd8, 0xff, 0xe0}, MIMEType: "image/jpeg"}

	url := img.DataURL()
	assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
	assert.Equal(t, "data:image/jpeg;base64,"+img.Base64(), url)

	// Missing MIME type falls back to JPEG, the only format the service emits.
	bare := GeneratedImage{Data: []byte("x")}
	assert.True(t, strings.HasPrefix(bare.DataURL(), "data:image/jpeg;base64,"))
}

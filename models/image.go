package models

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// MaxImagesPerRequest is the largest number of variations the hosted APIs
// accept in a single generation call.
const MaxImagesPerRequest = 4

// AspectRatio selects one of the fixed output shape presets accepted by the
// image-generation APIs.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "16:9"
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "9:16"
)

// AspectRatios lists the supported presets in display order.
var AspectRatios = []AspectRatio{AspectLandscape, AspectSquare, AspectPortrait}

// Valid reports whether the aspect ratio is one of the supported presets.
func (a AspectRatio) Valid() bool {
	switch a {
	case AspectLandscape, AspectSquare, AspectPortrait:
		return true
	}
	return false
}

// ImageGenerationInput represents the input for an image generation request.
type ImageGenerationInput struct {
	// Prompt is the raw user prompt, before any styling decoration.
	Prompt string
	// AspectRatio must be one of the supported presets.
	AspectRatio AspectRatio
	// Count is the number of variations to request, 1 to MaxImagesPerRequest.
	Count int
	// Model optionally addresses a backend in the "provider/model" format
	// (e.g. "imagen/imagen-3.0-generate-002"). Empty uses the default provider.
	Model string
}

// Validate checks the input against the fixed constraints before any remote
// call is made.
func (in ImageGenerationInput) Validate() error {
	if in.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	if in.Count < 1 || in.Count > MaxImagesPerRequest {
		return fmt.Errorf("count must be between 1 and %d, got %d", MaxImagesPerRequest, in.Count)
	}
	if !in.AspectRatio.Valid() {
		return fmt.Errorf("unsupported aspect ratio %q", in.AspectRatio)
	}
	return nil
}

// GeneratedImage represents a single image returned by a provider.
type GeneratedImage struct {
	Data     []byte
	MIMEType string
}

// Base64 returns the image bytes encoded with standard base64.
func (g GeneratedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(g.Data)
}

// DataURL wraps the encoded bytes in a data URL suitable for direct display
// in an <img> tag or as the href of a download link.
func (g GeneratedImage) DataURL() string {
	mime := g.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, g.Base64())
}

// ImageGenerationResponse represents the response from an image generation
// request.
type ImageGenerationResponse struct {
	Images   []GeneratedImage
	Provider string // Indicates which provider generated the images
}

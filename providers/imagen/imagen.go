package imagen

import (
	"context"
	"errors"
	"os"

	"github.com/pixelmint/pixelmint/models"
	"google.golang.org/genai"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "imagen-3.0-generate-002"

// outputMIMEType is the only image format the service requests from Imagen.
const outputMIMEType = "image/jpeg"

// ImagenProvider implements image generation against Google's Imagen models.
type ImagenProvider struct {
	client *genai.Client
}

// NewImagenProvider creates a new Imagen provider
func NewImagenProvider(ctx context.Context) (*ImagenProvider, error) {
	apiKey, found := os.LookupEnv("GEMINI_API_KEY")
	if !found {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &ImagenProvider{
		client: client,
	}, nil
}

// Close releases provider resources. The underlying client is HTTP-based and
// holds nothing to release.
func (p *ImagenProvider) Close() error {
	return nil
}

// GenerateImages issues a single generation call with the requested count,
// aspect ratio and output MIME type, and returns the raw image bytes of
// every generated variation.
func (p *ImagenProvider) GenerateImages(ctx context.Context, modelName string, input models.ImageGenerationInput) (*models.ImageGenerationResponse, error) {
	if modelName == "" {
		modelName = DefaultModel
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: int32(input.Count),
		AspectRatio:    string(input.AspectRatio),
		OutputMIMEType: outputMIMEType,
	}

	resp, err := p.client.Models.GenerateImages(ctx, modelName, input.Prompt, config)
	if err != nil {
		return nil, err
	}

	if len(resp.GeneratedImages) == 0 {
		return nil, errors.New("no images generated")
	}

	images := make([]models.GeneratedImage, 0, len(resp.GeneratedImages))
	for _, generated := range resp.GeneratedImages {
		if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mime := generated.Image.MIMEType
		if mime == "" {
			mime = outputMIMEType
		}
		images = append(images, models.GeneratedImage{
			Data:     generated.Image.ImageBytes,
			MIMEType: mime,
		})
	}

	if len(images) == 0 {
		return nil, errors.New("no image data in response")
	}

	return &models.ImageGenerationResponse{
		Images: images,
	}, nil
}

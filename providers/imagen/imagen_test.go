package imagen

import (
	"context"
	"os"
	"testing"

	"github.com/pixelmint/pixelmint/models"
)

func TestImagenProvider(t *testing.T) {
	// Skip the test if GEMINI_API_KEY is not set
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set, skipping Imagen provider test")
	}

	ctx := context.Background()

	provider, err := NewImagenProvider(ctx)
	if err != nil {
		t.Fatalf("Failed to create Imagen provider: %v", err)
	}
	defer provider.Close()

	t.Run("GenerateImages", func(t *testing.T) {
		input := models.ImageGenerationInput{
			Prompt:      "A lighthouse on a rocky coast at sunset",
			AspectRatio: models.AspectSquare,
			Count:       1,
		}

		response, err := provider.GenerateImages(ctx, "", input)
		if err != nil {
			t.Fatalf("GenerateImages failed: %v", err)
		}

		if len(response.Images) == 0 {
			t.Fatal("No images returned")
		}
		for i, img := range response.Images {
			if len(img.Data) == 0 {
				t.Errorf("Image %d has no data", i)
			}
			if img.MIMEType == "" {
				t.Errorf("Image %d has no MIME type", i)
			}
		}
	})

	t.Run("GenerateImagesMultiple", func(t *testing.T) {
		input := models.ImageGenerationInput{
			Prompt:      "A paper boat drifting on a pond",
			AspectRatio: models.AspectLandscape,
			Count:       2,
		}

		response, err := provider.GenerateImages(ctx, DefaultModel, input)
		if err != nil {
			t.Fatalf("GenerateImages failed: %v", err)
		}

		if len(response.Images) == 0 {
			t.Fatal("No images returned")
		}
	})
}

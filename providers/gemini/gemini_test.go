package gemini

import (
	"context"
	"os"
	"testing"
)

func TestRefiner(t *testing.T) {
	// Skip the test if GEMINI_API_KEY is not set
	if os.Getenv("GEMINI_API_KEY") == "" {
		t.Skip("GEMINI_API_KEY not set, skipping Gemini refiner test")
	}

	ctx := context.Background()

	refiner, err := NewRefiner(ctx)
	if err != nil {
		t.Fatalf("Failed to create Gemini refiner: %v", err)
	}
	defer refiner.Close()

	t.Run("RefinePrompt", func(t *testing.T) {
		refined, err := refiner.RefinePrompt(ctx, "a cat on a roof")
		if err != nil {
			t.Fatalf("RefinePrompt failed: %v", err)
		}

		if refined == "" {
			t.Error("Refined prompt is empty")
		}
	})
}
